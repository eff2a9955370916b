// split_sprites cuts a monster sprite sheet into one PNG per roster entry,
// in roster order, left to right and top to bottom.
// Usage: go run scripts/split_sprites.go <sheet.png> <columns> [outDir]
// Output: <outDir>/cave_bat.png, <outDir>/giant_rat.png, ... (outDir defaults to assets)
package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"crawler/internal/game"
)

func main() {
	code := run(os.Args[1:])
	if code != 0 {
		os.Exit(code)
	}
}

func run(args []string) int {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintf(os.Stderr, "usage: go run scripts/split_sprites.go <sheet.png> <columns> [outDir]\n")
		return 1
	}
	inPath := filepath.Clean(args[0])
	if strings.Contains(inPath, "..") {
		fmt.Fprintf(os.Stderr, "path must not escape current directory\n")
		return 1
	}
	cols, err := strconv.Atoi(args[1])
	if err != nil || cols < 1 {
		fmt.Fprintf(os.Stderr, "columns must be a positive number\n")
		return 1
	}
	outDir := "assets"
	if len(args) == 3 {
		outDir = filepath.Clean(args[2])
	}

	f, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", inPath, err)
		return 1
	}
	defer func() {
		if cErr := f.Close(); cErr != nil {
			fmt.Fprintf(os.Stderr, "close input: %v\n", cErr)
		}
	}()
	img, _, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		return 1
	}

	roster := game.DefaultCatalog().Monsters
	rows := (len(roster) + cols - 1) / cols
	b := img.Bounds()
	cellW, cellH := b.Dx()/cols, b.Dy()/rows
	if cellW == 0 || cellH == 0 {
		fmt.Fprintf(os.Stderr, "sheet %dx%d too small for %d columns and %d rows\n", b.Dx(), b.Dy(), cols, rows)
		return 1
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", outDir, err)
		return 1
	}
	for i, m := range roster {
		cx, cy := i%cols, i/cols
		r := image.Rect(b.Min.X+cx*cellW, b.Min.Y+cy*cellH, b.Min.X+(cx+1)*cellW, b.Min.Y+(cy+1)*cellH)
		name := game.SpriteKey(m.Name) + ".png"
		if err := writeCrop(img, r, outDir, name); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", name, err)
			return 1
		}
		fmt.Println(filepath.Join(outDir, name))
	}
	return 0
}

func writeCrop(img image.Image, r image.Rectangle, outDir, baseName string) (err error) {
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.Set(x, y, img.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	path := filepath.Join(outDir, baseName)
	if strings.Contains(baseName, "..") || strings.ContainsRune(baseName, os.PathSeparator) {
		return fmt.Errorf("invalid name %q", baseName)
	}
	f, err := os.Create(path) // #nosec G304 -- baseName is a roster-derived key
	if err != nil {
		return err
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()
	return png.Encode(f, dst)
}
