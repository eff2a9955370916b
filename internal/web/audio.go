package web

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"crawler/internal/sfx"
)

// audioExtensions lists override file types, tried in order.
var audioExtensions = []string{".wav", ".ogg", ".mp3"}

const (
	contentTypeMP3 = "audio/mpeg"
	contentTypeOGG = "audio/ogg"
	contentTypeWAV = "audio/wav"
)

// handleSfx serves /sfx/<cue>.wav. A recorded file in AssetsDir/sfx wins;
// otherwise the cue is synthesised.
func (s *Server) handleSfx(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cue, candidates, ok := s.sfxCandidates("/sfx/", r.URL.Path, audioExtensions)
	if !ok {
		http.NotFound(w, r)
		return
	}

	for _, p := range candidates {
		f, err := os.Open(p) // #nosec G304 -- p is under AssetsDir/sfx, validated above
		if err != nil {
			continue
		}
		info, err := f.Stat()
		if err != nil || info.IsDir() {
			_ = f.Close()
			continue
		}
		defer f.Close()
		contentType := contentTypeWAV
		switch strings.ToLower(filepath.Ext(p)) {
		case ".ogg":
			contentType = contentTypeOGG
		case ".mp3":
			contentType = contentTypeMP3
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", assetCacheControl)
		http.ServeContent(w, r, filepath.Base(p), info.ModTime(), f)
		return
	}

	b, err := sfx.WAV(cue)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeWAV)
	w.Header().Set("Cache-Control", assetCacheControl)
	http.ServeContent(w, r, cue+".wav", time.Time{}, bytes.NewReader(b))
}
