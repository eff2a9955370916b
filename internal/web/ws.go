package web

import (
	"encoding/json"
	"net/http"

	"crawler/internal/game"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// GET /ws upgrades to a websocket bound to the caller's session. Clients
// send intents as JSON and receive "step" replies plus "render" notices
// whenever a texture finishes loading.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(r.Context(), r)
	if !ok {
		http.Error(w, "no session", http.StatusNotFound)
		return
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger().Printf("web: upgrade: %v", err)
		return
	}
	ws.SetReadLimit(maxIntentBody)

	c := newClient(ws)
	sess.subscribe(c)
	go c.writePump()
	defer sess.unsubscribe(c)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger().Printf("web: ws read: %v", err)
			}
			return
		}
		var in game.Intent
		if err := json.Unmarshal(msg, &in); err != nil {
			s.reply(sess, c, pushMsg{Type: "error", Message: "bad intent"})
			continue
		}
		if _, err := s.apply(sess, in); err != nil {
			s.reply(sess, c, pushMsg{Type: "error", Message: err.Error()})
		}
	}
}

// reply queues msg for one client only.
func (s *Server) reply(sess *Session, c *client, msg pushMsg) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	sess.subMu.Lock()
	defer sess.subMu.Unlock()
	if _, ok := sess.subs[c]; !ok {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}
