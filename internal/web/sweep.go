package web

import (
	"context"
	"time"
)

// Sweep evicts every session that has been idle for s.Idle: it leaves the
// store and its asset cache is closed, so loads still in flight are dropped.
// It returns the number of sessions evicted.
func (s *Server) Sweep(ctx context.Context, now time.Time) int {
	if s.Idle <= 0 {
		return 0
	}
	var stale []*Session
	s.Store.Range(func(_ string, sess *Session) bool {
		if sess.idle(now, s.Idle) {
			stale = append(stale, sess)
		}
		return true
	})
	n := 0
	for _, sess := range stale {
		if !sess.idle(now, s.Idle) {
			continue
		}
		if err := s.Store.Delete(ctx, sess.ID); err != nil {
			s.logger().Printf("web: evict %s: %v", sess.ID, err)
			continue
		}
		sess.close()
		n++
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Server) RunSweeper(ctx context.Context, every time.Duration) {
	if s.Idle <= 0 || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(ctx, now); n > 0 {
				s.logger().Printf("web: evicted %d idle sessions, %d live", n, s.Store.Len())
			}
		}
	}
}
