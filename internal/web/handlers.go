// Package web serves the game over HTTP: a page with the rendered frame,
// JSON endpoints for intents and saves, and a websocket that pushes
// re-render notices.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"image/png"
	"log"
	"net/http"
	"time"

	"crawler/internal/assets"
	"crawler/internal/game"
	"crawler/internal/render"
	"crawler/internal/save"
	"crawler/internal/session"
	"crawler/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultTemplates parses the embedded page templates.
func DefaultTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type Server struct {
	Engine    *game.Engine
	Store     session.Store[*Session]
	Saves     save.Storage
	Loader    assets.Loader
	Tmpl      *template.Template
	Logger    *log.Logger
	AssetsDir string // optional sfx overrides live in AssetsDir/sfx
	// Idle is how long a session without websockets survives between
	// requests. Zero keeps sessions forever.
	Idle      time.Duration
	Width     int
	Height    int
	Stride    int
}

const (
	cookieName    = "crawler_sid"
	defaultWidth  = 320
	defaultHeight = 200
)

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/frame.png", s.handleFrame)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/move", s.handleMove)
	mux.HandleFunc("/action", s.handleAction)
	mux.HandleFunc("/api/game/load", s.handleLoad)
	mux.HandleFunc("/api/game/save", s.handleSave)
	mux.HandleFunc("/map.pdf", s.handleMap)
	mux.HandleFunc("/sfx/", s.handleSfx)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

func (s *Server) frameSize() (w, h, stride int) {
	w, h, stride = s.Width, s.Height, s.Stride
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	if stride < 1 {
		stride = 1
	}
	return w, h, stride
}

// newSession builds a session around st. Finished texture loads push a
// render notice to the session's websockets.
func (s *Server) newSession(id string, st *game.GameState) *Session {
	sess := &Session{ID: id, State: st, started: time.Now()}
	sess.touch(sess.started)
	logger := s.logger()
	sess.Cache = assets.NewCache(s.Loader, logger, func(key string) {
		sess.broadcast(logger, pushMsg{Type: "render", Key: key})
	})
	w, h, stride := s.frameSize()
	sess.Renderer = render.New(w, h, stride, sess.Cache)
	sess.Cache.Request(view.Keys(st)...)
	return sess
}

// getOrCreateSession returns the cookie's session, starting a new game
// when there is none.
func (s *Server) getOrCreateSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	id := s.sessionID(r)
	if id != "" {
		sess, ok, err := s.Store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			sess.touch(time.Now())
			return sess, nil
		}
	} else {
		id = s.Store.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	sess := s.newSession(id, s.Engine.NewGame())
	if err := s.Store.Put(ctx, id, sess); err != nil {
		sess.close()
		return nil, err
	}
	return sess, nil
}

// lookupSession is getOrCreateSession for endpoints that must not start a
// game: unknown sessions report false.
func (s *Server) lookupSession(ctx context.Context, r *http.Request) (*Session, bool) {
	id := s.sessionID(r)
	if id == "" {
		return nil, false
	}
	sess, ok, err := s.Store.Get(ctx, id)
	if err != nil || !ok {
		return nil, false
	}
	sess.touch(time.Now())
	return sess, true
}

func (s *Server) sessionID(r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("sid")
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, err := s.getOrCreateSession(r.Context(), w, r)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	tmpl := s.Tmpl
	if tmpl == nil {
		tmpl = DefaultTemplates()
	}
	width, height, _ := s.frameSize()

	sess.mu.Lock()
	vm := ViewModel{
		SessionID: sess.ID,
		Width:     width,
		Height:    height,
		State:     makeStateView(s.Engine.Catalog, sess.State),
		Message:   sess.Last.Message,
	}
	sess.mu.Unlock()

	w.Header().Set("Cache-Control", "no-store")
	if err := tmpl.ExecuteTemplate(w, "layout.html", vm); err != nil {
		s.logger().Printf("web: render page: %v", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
	}
}

// GET /frame.png
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, err := s.getOrCreateSession(r.Context(), w, r)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	sess.mu.Lock()
	sess.Cache.Request(view.Keys(sess.State)...)
	frame := sess.Renderer.Render(view.Scene(sess.State, sess.Elapsed()))
	sess.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame.Image); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger().Printf("web: write frame: %v", err)
	}
}

// GET /state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, err := s.getOrCreateSession(r.Context(), w, r)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	sess.mu.Lock()
	v := makeStateView(s.Engine.Catalog, sess.State)
	sess.mu.Unlock()
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
