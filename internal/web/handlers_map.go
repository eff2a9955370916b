package web

import (
	"fmt"
	"net/http"

	"crawler/internal/mapgen"
)

// GET /map.pdf
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := s.lookupSession(r.Context(), r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	sess.mu.Lock()
	st := sess.State
	pose := mapgen.Pose{X: st.X, Y: st.Y, Facing: st.Dir}
	floor := st.Level
	pdf, err := mapgen.Generate(st.Map, pose, floor, "Drawn by the party's cartographer")
	sess.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="floor-%d.pdf"`, floor))
	if _, err := w.Write(pdf); err != nil {
		s.logger().Printf("web: write map: %v", err)
	}
}
