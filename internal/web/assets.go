package web

import (
	"path/filepath"
	"strings"

	"crawler/internal/sfx"
)

const assetCacheControl = "public, max-age=3600"

// sfxCandidates validates /sfx/<cue>.wav and returns the cue name plus the
// override files to try under AssetsDir/sfx.
func (s *Server) sfxCandidates(prefix, urlPath string, extensions []string) (string, []string, bool) {
	if !strings.HasPrefix(urlPath, prefix) {
		return "", nil, false
	}
	name := strings.Trim(strings.TrimPrefix(urlPath, prefix), "/")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return "", nil, false
	}
	if _, ok := sfx.Lookup(name); !ok {
		return "", nil, false
	}
	if s.AssetsDir == "" {
		return name, nil, true
	}

	baseDir := filepath.Join(s.AssetsDir, "sfx")
	resolved := filepath.Join(baseDir, name)
	rel, err := filepath.Rel(baseDir, resolved)
	if err != nil || strings.Contains(rel, "..") {
		return "", nil, false
	}
	candidates := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		candidates = append(candidates, resolved+ext)
	}
	return name, candidates, true
}
