// Package render composes a first-person frame from ray-cast hits: ceiling
// and floor, wall strips, then depth-tested monster billboards.
package render

import (
	"image"
	"image/color"
	"math"

	"crawler/internal/dungeon"
	"crawler/internal/raycast"
)

const (
	DefaultFogDensity = 0.015
	sideShade         = 0.7
	minLight          = 0.2
	lightFalloff      = 0.05
)

// DefaultFogColor is the near-black blue that distant geometry fades into.
var DefaultFogColor = color.RGBA{5, 5, 13, 255}

// Scene is everything one frame depends on.
type Scene struct {
	Grid    dungeon.Grid
	PosX    float64
	PosY    float64
	Facing  dungeon.Facing
	Hits    []raycast.Hit // recomputed when nil or the wrong length
	Sprites []Sprite
	Floor   int
	Time    float64 // seconds, drives the torch flicker
}

// Frame is a composed image plus the per-pixel-column wall depth used for
// sprite occlusion.
type Frame struct {
	Image   *image.RGBA
	Depth   []float64
	Visible []string // ids of sprites with at least one drawn stripe
	Planes  string   // backend that drew floor and ceiling
}

// Renderer draws frames of a fixed size. Textures may be nil, in which case
// everything is flat shaded.
type Renderer struct {
	Width      int
	Height     int
	Stride     int // pixel columns per ray
	Textures   TextureSource
	FogColor   color.RGBA
	FogDensity float64
	Flicker    bool
}

func New(width, height, stride int, textures TextureSource) *Renderer {
	if stride < 1 {
		stride = 1
	}
	return &Renderer{
		Width:      width,
		Height:     height,
		Stride:     stride,
		Textures:   textures,
		FogColor:   DefaultFogColor,
		FogDensity: DefaultFogDensity,
		Flicker:    true,
	}
}

// Flicker is the torch intensity at time t, close to 1.
func Flicker(t float64) float64 {
	return 0.95 + math.Sin(t*3.7)*0.03 + math.Sin(t*7.3)*0.02
}

// Render draws s. It never fails: unresolved textures fall back to flat colour.
func (r *Renderer) Render(s Scene) *Frame {
	w, h := r.Width, r.Height
	stride := r.Stride
	if stride < 1 {
		stride = 1
	}
	hits := s.Hits
	if len(hits) != raycast.Columns(w, stride) {
		hits = raycast.Cast(s.Grid, s.PosX, s.PosY, s.Facing, w, stride)
	}

	dirX, dirY, planeX, planeY := raycast.Basis(s.Facing)
	flicker := 1.0
	if r.Flicker {
		flicker = Flicker(s.Time)
	}
	c := &canvas{
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		w:      w,
		h:      h,
		posX:   s.PosX,
		posY:   s.PosY,
		dirX:   dirX,
		dirY:   dirY,
		planeX: planeX,
		planeY: planeY,
		light: lighting{
			flicker: flicker,
			fog:     r.FogColor,
			density: r.FogDensity,
		},
	}

	planes := r.planeBackend(s.Floor)
	planes.draw(c)

	depth := make([]float64, w)
	for col, hit := range hits {
		x0 := col * stride
		x1 := min(x0+stride, w)
		for x := x0; x < x1; x++ {
			depth[x] = hit.Distance
		}
		if hit.Far {
			continue
		}
		r.wallBackend(s.Floor, hit.Tile).strip(c, x0, x1, hit)
	}

	visible := r.drawSprites(c, depth, s.Sprites)
	return &Frame{Image: c.img, Depth: depth, Visible: visible, Planes: planes.name()}
}

func (r *Renderer) texture(key string) (*Texture, bool) {
	if r.Textures == nil {
		return nil, false
	}
	t, ok := r.Textures.Texture(key)
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}

// canvas carries per-frame camera and lighting state to the backends.
type canvas struct {
	img            *image.RGBA
	w, h           int
	posX, posY     float64
	dirX, dirY     float64
	planeX, planeY float64
	light          lighting
}

type lighting struct {
	flicker float64
	fog     color.RGBA
	density float64
}

// apply lights c as seen at distance d with an extra multiplier and blends
// it toward the fog colour.
func (l lighting) apply(c color.RGBA, d, shade float64) color.RGBA {
	lit := clamp(l.flicker*(1-d*lightFalloff), minLight, 1) * shade
	fog := clamp(math.Exp(-l.density*d*d), 0, 1)
	mix := func(v, f uint8) uint8 {
		return uint8(clamp(float64(v)*lit*fog+float64(f)*(1-fog), 0, 255))
	}
	return color.RGBA{mix(c.R, l.fog.R), mix(c.G, l.fog.G), mix(c.B, l.fog.B), 255}
}

// blend draws c over the frame pixel using its straight alpha.
func (cv *canvas) blend(x, y int, c color.RGBA, alpha uint8) {
	if alpha == 255 {
		cv.img.SetRGBA(x, y, c)
		return
	}
	if alpha == 0 {
		return
	}
	dst := cv.img.RGBAAt(x, y)
	a := float64(alpha) / 255
	mix := func(s, d uint8) uint8 {
		return uint8(float64(s)*a + float64(d)*(1-a))
	}
	cv.img.SetRGBA(x, y, color.RGBA{mix(c.R, dst.R), mix(c.G, dst.G), mix(c.B, dst.B), 255})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
