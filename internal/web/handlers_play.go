package web

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"crawler/internal/game"
	"crawler/internal/view"
)

const maxIntentBody = 4 << 10

// stepResponse answers /move and /action.
type stepResponse struct {
	Result game.StepResult `json:"result"`
	State  StateView       `json:"state"`
}

// apply runs one intent on sess under its lock, then tells the session's
// websockets to re-render.
func (s *Server) apply(sess *Session, in game.Intent) (stepResponse, error) {
	sess.mu.Lock()
	res, err := s.Engine.Apply(sess.State, in)
	if err != nil {
		sess.mu.Unlock()
		return stepResponse{}, err
	}
	sess.Last = res
	sess.Cache.Request(view.Keys(sess.State)...)
	out := stepResponse{Result: res, State: makeStateView(s.Engine.Catalog, sess.State)}
	sess.mu.Unlock()

	sess.broadcast(s.logger(), pushMsg{Type: "step", Result: &out.Result, State: &out.State})
	return out, nil
}

// POST /move  dir=north|east|south|west
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	in, err := decodeIntent(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	in.Kind = game.IntentMove
	s.serveIntent(w, r, in)
}

// POST /action  kind=attack|ability|defend|use-item|flee|start-combat|...
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	in, err := decodeIntent(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if in.Kind == "" || in.Kind == game.IntentMove {
		http.Error(w, "missing or invalid kind", http.StatusBadRequest)
		return
	}
	s.serveIntent(w, r, in)
}

func (s *Server) serveIntent(w http.ResponseWriter, r *http.Request, in game.Intent) {
	sess, err := s.getOrCreateSession(r.Context(), w, r)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	out, err := s.apply(sess, in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// decodeIntent reads a JSON body or form fields.
func decodeIntent(r *http.Request) (game.Intent, error) {
	var in game.Intent
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		body := io.LimitReader(r.Body, maxIntentBody)
		if err := json.NewDecoder(body).Decode(&in); err != nil {
			return in, errors.New("bad json")
		}
		return in, nil
	}
	if err := r.ParseForm(); err != nil {
		return in, errors.New("bad form")
	}
	in.Kind = game.IntentKind(strings.TrimSpace(r.FormValue("kind")))
	in.Dir = r.FormValue("dir")
	in.Ability = r.FormValue("ability")
	in.Slot = game.EquipSlot(r.FormValue("slot"))
	ints := map[string]*int{
		"target": &in.Target,
		"item":   &in.Item,
		"member": &in.Member,
		"x":      &in.X,
		"y":      &in.Y,
		"tile":   &in.Tile,
	}
	for name, dst := range ints {
		v := r.FormValue(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, errors.New("bad " + name)
		}
		*dst = n
	}
	return in, nil
}
