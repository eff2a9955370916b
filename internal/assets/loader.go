package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg"}

// DirLoader reads <Dir>/<key>.png (or .jpg) from disk.
type DirLoader struct {
	Dir string
}

func (d DirLoader) Load(ctx context.Context, key string) (image.Image, error) {
	candidates, ok := d.candidates(key)
	if !ok {
		return nil, ErrNotFound
	}
	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(p) // #nosec G304 -- p is under validated Dir
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		img, _, err := image.Decode(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", p, err)
		}
		return img, nil
	}
	return nil, ErrNotFound
}

// candidates rejects keys that could escape Dir.
func (d DirLoader) candidates(key string) ([]string, bool) {
	if d.Dir == "" || key == "" {
		return nil, false
	}
	clean := filepath.Clean(key)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) ||
		strings.ContainsAny(clean, `/\`) {
		return nil, false
	}
	base := filepath.Clean(d.Dir)
	resolved := filepath.Join(base, clean)
	rel, err := filepath.Rel(base, resolved)
	if err != nil || strings.Contains(rel, "..") {
		return nil, false
	}
	out := make([]string, 0, len(imageExtensions))
	for _, ext := range imageExtensions {
		out = append(out, resolved+ext)
	}
	return out, true
}
