package web

import (
	"errors"
	"net/http"

	"crawler/internal/game"
	"crawler/internal/save"
	"crawler/internal/view"
)

// GET /api/game/load replaces the session's game with the saved one.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Saves == nil {
		http.Error(w, "saving is disabled", http.StatusServiceUnavailable)
		return
	}
	ctx := r.Context()
	sess, err := s.getOrCreateSession(ctx, w, r)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	st, err := s.Saves.Load(ctx, sess.ID)
	if errors.Is(err, save.ErrNotFound) {
		http.Error(w, "no saved game", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger().Printf("web: load %s: %v", sess.ID, err)
		http.Error(w, "load failed", http.StatusInternalServerError)
		return
	}

	sess.mu.Lock()
	sess.State = st
	sess.Last = game.StepResult{Message: "Game loaded."}
	sess.Cache.Request(view.Keys(st)...)
	v := makeStateView(s.Engine.Catalog, st)
	sess.mu.Unlock()

	sess.broadcast(s.logger(), pushMsg{Type: "render"})
	writeJSON(w, http.StatusOK, v)
}

// POST /api/game/save stores the session's game and answers with the state
// as stored.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Saves == nil {
		http.Error(w, "saving is disabled", http.StatusServiceUnavailable)
		return
	}
	ctx := r.Context()
	sess, ok := s.lookupSession(ctx, r)
	if !ok {
		http.Error(w, "no game to save", http.StatusNotFound)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	stored, err := s.Saves.Save(ctx, sess.ID, sess.State)
	if errors.Is(err, game.ErrInvalidState) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.logger().Printf("web: save %s: %v", sess.ID, err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}
