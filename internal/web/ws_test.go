package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crawler/internal/game"

	"github.com/gorilla/websocket"
)

func TestHandleWS_IntentRoundTrip(t *testing.T) {
	srv := testServer(t)
	cookie := newSessionCookie(t, srv)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	header := http.Header{}
	header.Add("Cookie", cookie.String())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("Expected 101, got %d", resp.StatusCode)
	}

	if err := conn.WriteJSON(game.Intent{Kind: game.IntentMove, Dir: "east"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var m pushMsg
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if m.Type != "step" {
			continue
		}
		if m.State == nil || m.State.X != 2 {
			t.Errorf("Expected party at x=2, got %+v", m.State)
		}
		return
	}
}

func TestHandleWS_BadIntent(t *testing.T) {
	srv := testServer(t)
	cookie := newSessionCookie(t, srv)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	header := http.Header{}
	header.Add("Cookie", cookie.String())
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var m pushMsg
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		if m.Type == "error" {
			return
		}
	}
}

func TestHandleWS_NoSession(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", http.NoBody))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
