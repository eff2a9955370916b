package web

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"crawler/internal/assets"
	"crawler/internal/game"
	"crawler/internal/render"

	"github.com/gorilla/websocket"
)

// Session is one browser's game. mu guards State and Last; every intent and
// every frame runs under it.
type Session struct {
	ID       string
	Cache    *assets.Cache
	Renderer *render.Renderer

	mu      sync.Mutex
	State   *game.GameState
	Last    game.StepResult
	started time.Time

	lastSeen atomic.Int64 // unix nanos of the last request or disconnect

	subMu sync.Mutex
	subs  map[*client]struct{}
}

// Elapsed is the session clock that drives the torch flicker.
func (s *Session) Elapsed() float64 {
	return time.Since(s.started).Seconds()
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// idle reports whether nobody is watching the session and no request has
// reached it for at least d.
func (s *Session) idle(now time.Time, d time.Duration) bool {
	if s.Subscribers() > 0 {
		return false
	}
	return now.Sub(time.Unix(0, s.lastSeen.Load())) >= d
}

// pushMsg is what the server sends on /ws.
type pushMsg struct {
	Type    string           `json:"type"` // render | step | error
	Key     string           `json:"key,omitempty"`
	Result  *game.StepResult `json:"result,omitempty"`
	State   *StateView       `json:"state,omitempty"`
	Message string           `json:"message,omitempty"`
}

// client is one websocket connection with its own write goroutine.
type client struct {
	ws   *websocket.Conn
	send chan []byte
}

func newClient(ws *websocket.Conn) *client {
	return &client{ws: ws, send: make(chan []byte, 64)}
}

func (c *client) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
}

func (s *Session) subscribe(c *client) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subs == nil {
		s.subs = map[*client]struct{}{}
	}
	s.subs[c] = struct{}{}
}

func (s *Session) unsubscribe(c *client) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if _, ok := s.subs[c]; ok {
		delete(s.subs, c)
		close(c.send)
	}
	s.touch(time.Now())
}

// Subscribers is the number of open websockets on this session.
func (s *Session) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// broadcast queues msg for every subscriber, dropping it for clients whose
// buffer is full.
func (s *Session) broadcast(logger *log.Logger, msg pushMsg) {
	b, err := json.Marshal(msg)
	if err != nil {
		logger.Printf("web: marshal push: %v", err)
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for c := range s.subs {
		select {
		case c.send <- b:
		default:
		}
	}
}

// close releases the asset cache and hangs up every websocket.
func (s *Session) close() {
	s.Cache.Close()
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for c := range s.subs {
		close(c.send)
	}
	s.subs = nil
}
