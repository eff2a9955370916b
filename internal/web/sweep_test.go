package web

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crawler/internal/assets"
)

func sessionFor(t *testing.T, srv *Server, c *http.Cookie) *Session {
	t.Helper()
	sess, ok, err := srv.Store.Get(context.Background(), c.Value)
	if err != nil || !ok {
		t.Fatalf("Expected session %s in store (err=%v)", c.Value, err)
	}
	return sess
}

func TestSweep_EvictsIdleSessions(t *testing.T) {
	srv := testServer(t)
	srv.Idle = time.Minute
	cookie := newSessionCookie(t, srv)
	sess := sessionFor(t, srv, cookie)
	ctx := context.Background()

	if n := srv.Sweep(ctx, time.Now()); n != 0 {
		t.Errorf("Expected fresh session to survive, evicted %d", n)
	}
	if n := srv.Sweep(ctx, time.Now().Add(2*time.Minute)); n != 1 {
		t.Fatalf("Expected 1 eviction, got %d", n)
	}
	if srv.Store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", srv.Store.Len())
	}
	if _, ok, _ := srv.Store.Get(ctx, sess.ID); ok {
		t.Error("Expected evicted session to leave the store")
	}

	// The same cookie starts over with a new game.
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/state", http.NoBody), cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 after eviction, got %d", rec.Code)
	}
	if srv.Store.Len() != 1 {
		t.Errorf("Expected 1 live session, got %d", srv.Store.Len())
	}
}

func TestSweep_KeepsWatchedSessions(t *testing.T) {
	srv := testServer(t)
	srv.Idle = time.Minute
	sess := sessionFor(t, srv, newSessionCookie(t, srv))
	defer sess.close()

	c := &client{send: make(chan []byte, 1)}
	sess.subscribe(c)
	if n := srv.Sweep(context.Background(), time.Now().Add(time.Hour)); n != 0 {
		t.Errorf("Expected session with a websocket to survive, evicted %d", n)
	}
}

func TestSweep_Disabled(t *testing.T) {
	srv := testServer(t)
	newSessionCookie(t, srv)
	if n := srv.Sweep(context.Background(), time.Now().Add(24*time.Hour)); n != 0 {
		t.Errorf("Expected no evictions with Idle=0, got %d", n)
	}
}

func TestSweep_LateLoadDoesNotPush(t *testing.T) {
	srv := testServer(t)
	srv.Idle = time.Minute
	gate := make(chan struct{})
	srv.Loader = assets.LoaderFunc(func(_ context.Context, _ string) (image.Image, error) {
		<-gate
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	})

	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/frame.png", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /frame.png: expected 200, got %d", rec.Code)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("Expected session cookie")
	}
	sess := sessionFor(t, srv, cookie)

	if n := srv.Sweep(context.Background(), time.Now().Add(2*time.Minute)); n != 1 {
		t.Fatalf("Expected 1 eviction, got %d", n)
	}

	// A socket attached to the dead session must stay quiet once the
	// pending loads finish.
	c := &client{send: make(chan []byte, 8)}
	sess.subscribe(c)
	close(gate)
	sess.Cache.Wait()

	select {
	case b := <-c.send:
		t.Errorf("Expected no push after eviction, got %s", b)
	default:
	}
	if n := sess.Cache.Loaded(); n != 0 {
		t.Errorf("Expected no textures after eviction, got %d", n)
	}
}
