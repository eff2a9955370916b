package assets

import (
	"context"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// Pixel-art dungeon palette. Deeper floors get darker, colder stone.
var (
	pixelMortar = color.RGBA{0x22, 0x1e, 0x24, 255} // near-black mortar
	pixelStone  = color.RGBA{0x6e, 0x68, 0x62, 255} // warm grey brick
	pixelMoss   = color.RGBA{0x3d, 0x5a, 0x3a, 255} // damp moss streaks
	pixelSlab   = color.RGBA{0x55, 0x4c, 0x44, 255} // floor flagstone
	pixelGrit   = color.RGBA{0x3a, 0x33, 0x2e, 255} // floor seams
	pixelIron   = color.RGBA{0x5c, 0x64, 0x6e, 255} // door plates
	pixelRivet  = color.RGBA{0xa8, 0xae, 0xb4, 255} // door rivets
	pixelRust   = color.RGBA{0x7a, 0x42, 0x24, 255} // door bands
)

const blockPx = 8
const texSize = 64
const blocksPerSide = texSize / blockPx

// fillBlock fills one 8×8 block at block coords (bx, by) with clr.
func fillBlock(img *image.RGBA, bx, by int, clr color.RGBA) {
	for dy := 0; dy < blockPx; dy++ {
		for dx := 0; dx < blockPx; dx++ {
			x := bx*blockPx + dx
			y := by*blockPx + dy
			if x < texSize && y < texSize {
				img.SetRGBA(x, y, clr)
			}
		}
	}
}

// hline draws a one-pixel mortar line across the texture at row y.
func hline(img *image.RGBA, y int, clr color.RGBA) {
	for x := 0; x < texSize; x++ {
		img.SetRGBA(x, y, clr)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, clr color.RGBA) {
	for y := y0; y < y1 && y < texSize; y++ {
		img.SetRGBA(x, y, clr)
	}
}

// darken scales a colour by f, used to age stone with depth.
func darken(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{uint8(float64(c.R) * f), uint8(float64(c.G) * f), uint8(float64(c.B) * f), 255}
}

func depthFactor(floor int) float64 {
	f := 1 - 0.06*float64(floor-1)
	if f < 0.55 {
		f = 0.55
	}
	return f
}

// Generated draws blocky procedural surfaces for wall_<n>, floor_<n> and
// door_metal so a bare install still renders textured. Monster sprites are
// never generated.
type Generated struct{}

func (Generated) Load(_ context.Context, key string) (image.Image, error) {
	switch {
	case key == "door_metal":
		return generateDoor(), nil
	case strings.HasPrefix(key, "wall_"):
		n, err := strconv.Atoi(strings.TrimPrefix(key, "wall_"))
		if err != nil || n < 1 {
			return nil, ErrNotFound
		}
		return generateWall(n), nil
	case strings.HasPrefix(key, "floor_"):
		n, err := strconv.Atoi(strings.TrimPrefix(key, "floor_"))
		if err != nil || n < 1 {
			return nil, ErrNotFound
		}
		return generateFloor(n), nil
	}
	return nil, ErrNotFound
}

// generateWall lays running-bond bricks: two block rows per course, with
// every other course offset by half a brick.
func generateWall(floor int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, texSize, texSize))
	f := depthFactor(floor)
	stone := darken(pixelStone, f)
	for by := 0; by < blocksPerSide; by++ {
		for bx := 0; bx < blocksPerSide; bx++ {
			fillBlock(img, bx, by, stone)
		}
	}
	mortar := pixelMortar
	for course := 0; course < blocksPerSide/2; course++ {
		y := course * 2 * blockPx
		hline(img, y, mortar)
		offset := 0
		if course%2 == 1 {
			offset = 2 * blockPx
		}
		for x := offset; x < texSize; x += 4 * blockPx {
			vline(img, x, y, y+2*blockPx, mortar)
		}
	}
	// Moss creeps in from floor 3 downwards.
	if floor >= 3 {
		for i := 0; i < floor && i < blocksPerSide; i++ {
			bx := (i*5 + floor) % blocksPerSide
			fillBlock(img, bx, blocksPerSide-1, darken(pixelMoss, f))
		}
	}
	return img
}

// generateFloor draws large flagstones with a seam every four blocks.
func generateFloor(floor int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, texSize, texSize))
	f := depthFactor(floor)
	for by := 0; by < blocksPerSide; by++ {
		for bx := 0; bx < blocksPerSide; bx++ {
			clr := darken(pixelSlab, f)
			if (bx/4+by/4)%2 == 1 {
				clr = darken(pixelSlab, f*0.9)
			}
			fillBlock(img, bx, by, clr)
		}
	}
	grit := darken(pixelGrit, f)
	for y := 0; y < texSize; y += 4 * blockPx {
		hline(img, y, grit)
	}
	for x := 0; x < texSize; x += 4 * blockPx {
		vline(img, x, 0, texSize, grit)
	}
	return img
}

// generateDoor draws iron plates with rust bands and rivets.
func generateDoor() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, texSize, texSize))
	for by := 0; by < blocksPerSide; by++ {
		for bx := 0; bx < blocksPerSide; bx++ {
			fillBlock(img, bx, by, pixelIron)
		}
	}
	for _, by := range []int{1, blocksPerSide - 2} {
		for bx := 0; bx < blocksPerSide; bx++ {
			fillBlock(img, bx, by, pixelRust)
		}
	}
	for _, by := range []int{1, blocksPerSide - 2} {
		for bx := 0; bx < blocksPerSide; bx += 2 {
			img.SetRGBA(bx*blockPx+blockPx/2, by*blockPx+blockPx/2, pixelRivet)
		}
	}
	vline(img, texSize/2, 0, texSize, pixelMortar)
	return img
}
