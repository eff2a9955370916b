package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
)

// Asset keys looked up in a TextureSource.
const DoorKey = "door_metal"

func WallKey(floor int) string  { return fmt.Sprintf("wall_%d", floor) }
func FloorKey(floor int) string { return fmt.Sprintf("floor_%d", floor) }

// IsSpriteKey reports whether key names a monster sprite rather than a surface.
func IsSpriteKey(key string) bool {
	if key == DoorKey {
		return false
	}
	return !strings.HasPrefix(key, "wall_") && !strings.HasPrefix(key, "floor_")
}

// TextureSource resolves asset keys without blocking. A missing key means the
// caller draws flat colour instead.
type TextureSource interface {
	Texture(key string) (*Texture, bool)
}

// Texture is an immutable, non-premultiplied bitmap sampled in [0,1) UV space.
type Texture struct {
	img *image.NRGBA
	w   int
	h   int
}

func NewTexture(src image.Image) *Texture {
	b := src.Bounds()
	img, ok := src.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		img = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	}
	return &Texture{img: img, w: b.Dx(), h: b.Dy()}
}

func (t *Texture) Size() (int, int) { return t.w, t.h }

func (t *Texture) Image() *image.NRGBA { return t.img }

// Sample wraps u and v into the texture and returns the nearest texel.
func (t *Texture) Sample(u, v float64) color.NRGBA {
	if t.w == 0 || t.h == 0 {
		return color.NRGBA{}
	}
	u -= math.Floor(u)
	v -= math.Floor(v)
	x := int(u * float64(t.w))
	y := int(v * float64(t.h))
	if x >= t.w {
		x = t.w - 1
	}
	if y >= t.h {
		y = t.h - 1
	}
	return t.img.NRGBAAt(x, y)
}

// MapSource is a fixed TextureSource, handy for previews and tests.
type MapSource map[string]*Texture

func (m MapSource) Texture(key string) (*Texture, bool) {
	t, ok := m[key]
	return t, ok
}
