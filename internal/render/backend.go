package render

import (
	"image/color"
	"math"

	"crawler/internal/dungeon"
	"crawler/internal/raycast"
)

// planeBackend fills ceiling and floor.
type planeBackend interface {
	name() string
	draw(c *canvas)
}

// wallBackend fills the wall strip for one ray.
type wallBackend interface {
	strip(c *canvas, x0, x1 int, hit raycast.Hit)
}

// Flat palette used whenever a texture is missing.
var (
	flatCeiling    = color.RGBA{52, 48, 60, 255}
	flatFloor      = color.RGBA{70, 62, 54, 255}
	flatWallColor  = color.RGBA{118, 110, 100, 255}
	flatDoor       = color.RGBA{122, 82, 44, 255}
	flatLadderDown = color.RGBA{176, 124, 40, 255}
	flatLadderUp   = color.RGBA{78, 140, 172, 255}
	flatSprite     = color.RGBA{168, 40, 52, 255}
)

const ceilingShade = 0.6

func (r *Renderer) planeBackend(floor int) planeBackend {
	if tex, ok := r.texture(FloorKey(floor)); ok {
		return texturedPlanes{tex: tex}
	}
	return flatPlanes{}
}

func (r *Renderer) wallBackend(floor int, t dungeon.Tile) wallBackend {
	var key string
	switch t {
	case dungeon.Wall:
		key = WallKey(floor)
	case dungeon.Door:
		key = DoorKey
	}
	if key != "" {
		if tex, ok := r.texture(key); ok {
			return texturedWall{tex: tex}
		}
	}
	return flatWall{c: flatColor(t)}
}

func flatColor(t dungeon.Tile) color.RGBA {
	switch t {
	case dungeon.Door:
		return flatDoor
	case dungeon.LadderDown:
		return flatLadderDown
	case dungeon.LadderUp:
		return flatLadderUp
	default:
		return flatWallColor
	}
}

// rowDistance is the floor distance seen by screen row y, and whether the row
// is below the horizon.
func rowDistance(y, h int) (float64, bool) {
	p := float64(y) + 0.5 - float64(h)/2
	below := p > 0
	return (float64(h) / 2) / math.Abs(p), below
}

// flatPlanes is the cheap vertical gradient: a constant colour darkened by
// row distance and fog.
type flatPlanes struct{}

func (flatPlanes) name() string { return "flat" }

func (flatPlanes) draw(c *canvas) {
	for y := 0; y < c.h; y++ {
		d, below := rowDistance(y, c.h)
		base, shade := flatCeiling, ceilingShade
		if below {
			base, shade = flatFloor, 1
		}
		px := c.light.apply(base, d, shade)
		for x := 0; x < c.w; x++ {
			c.img.SetRGBA(x, y, px)
		}
	}
}

// texturedPlanes casts every row onto the floor plane and samples the floor
// texture at the fractional world position. The ceiling mirrors the floor.
type texturedPlanes struct {
	tex *Texture
}

func (texturedPlanes) name() string { return "textured" }

func (p texturedPlanes) draw(c *canvas) {
	leftX, leftY := c.dirX-c.planeX, c.dirY-c.planeY
	rightX, rightY := c.dirX+c.planeX, c.dirY+c.planeY
	for y := 0; y < c.h; y++ {
		d, below := rowDistance(y, c.h)
		shade := 1.0
		if !below {
			shade = ceilingShade
		}
		stepX := d * (rightX - leftX) / float64(c.w)
		stepY := d * (rightY - leftY) / float64(c.w)
		wx := c.posX + d*leftX + stepX*0.5
		wy := c.posY + d*leftY + stepY*0.5
		for x := 0; x < c.w; x++ {
			s := p.tex.Sample(wx, wy)
			c.img.SetRGBA(x, y, c.light.apply(color.RGBA{s.R, s.G, s.B, 255}, d, shade))
			wx += stepX
			wy += stepY
		}
	}
}

type flatWall struct {
	c color.RGBA
}

func (f flatWall) strip(c *canvas, x0, x1 int, hit raycast.Hit) {
	_, y0, y1 := stripSpan(c.h, hit.Distance)
	shade := 1.0
	if hit.Side == 1 {
		shade = sideShade
	}
	px := c.light.apply(f.c, hit.Distance, shade)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.img.SetRGBA(x, y, px)
		}
	}
}

type texturedWall struct {
	tex *Texture
}

func (t texturedWall) strip(c *canvas, x0, x1 int, hit raycast.Hit) {
	top, y0, y1 := stripSpan(c.h, hit.Distance)
	lineHeight := float64(c.h) / math.Max(hit.Distance, minDistance)
	shade := 1.0
	if hit.Side == 1 {
		shade = sideShade
	}
	for y := y0; y < y1; y++ {
		v := (float64(y) + 0.5 - top) / lineHeight
		s := t.tex.Sample(hit.TextureU, clamp(v, 0, 0.9999))
		px := c.light.apply(color.RGBA{s.R, s.G, s.B, 255}, hit.Distance, shade)
		for x := x0; x < x1; x++ {
			c.img.SetRGBA(x, y, px)
		}
	}
}

const minDistance = 1e-4

// stripSpan centres a wall of height h/d on the horizon and clips it to the
// screen.
func stripSpan(h int, d float64) (top float64, y0, y1 int) {
	lineHeight := float64(h) / math.Max(d, minDistance)
	top = float64(h)/2 - lineHeight/2
	y0 = max(0, int(math.Floor(top)))
	y1 = min(h, int(math.Ceil(top+lineHeight)))
	return top, y0, y1
}
