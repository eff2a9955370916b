package render

import (
	"image/color"
	"math"
	"sort"

	"crawler/internal/raycast"
)

// Sprite is a camera-facing billboard standing on the floor at world (X, Y).
type Sprite struct {
	ID    string
	Key   string  // texture key, usually game.SpriteKey(monster name)
	X     float64 // world position, tile units
	Y     float64
	Scale float64 // 1 is a full wall height
	Tint  color.RGBA
}

type projected struct {
	Sprite
	camX, camY float64
	screenX    float64
	size       float64
}

// project moves a world position into camera space. camY is the depth along
// the view direction, camX the offset along the camera plane.
func (c *canvas) project(s Sprite) (projected, bool) {
	dx, dy := s.X-c.posX, s.Y-c.posY
	rightX, rightY := c.planeX/raycast.PlaneMagnitude, c.planeY/raycast.PlaneMagnitude
	camX := dx*rightX + dy*rightY
	camY := dx*c.dirX + dy*c.dirY
	if camY <= 0 {
		return projected{}, false
	}
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	half := float64(c.w) / 2
	return projected{
		Sprite:  s,
		camX:    camX,
		camY:    camY,
		screenX: half + (camX/camY)*half/raycast.PlaneMagnitude,
		size:    float64(c.h) / camY * scale,
	}, true
}

// drawSprites paints far sprites first and skips every stripe that lies
// behind the wall recorded for its column.
func (r *Renderer) drawSprites(c *canvas, depth []float64, sprites []Sprite) []string {
	list := make([]projected, 0, len(sprites))
	for _, s := range sprites {
		if p, ok := c.project(s); ok {
			list = append(list, p)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].camY > list[j].camY
	})

	var visible []string
	for _, p := range list {
		tex, _ := r.texture(p.Key)
		if r.drawSprite(c, depth, p, tex) {
			visible = append(visible, p.ID)
		}
	}
	return visible
}

func (r *Renderer) drawSprite(c *canvas, depth []float64, p projected, tex *Texture) bool {
	// The sprite's feet sit on the floor line at its depth. Closer than one
	// tile that line is off screen, so it stands on the bottom edge instead.
	wallHeight := float64(c.h) / p.camY
	bottom := min(float64(c.h), float64(c.h)/2+wallHeight/2)
	top := bottom - p.size
	left := p.screenX - p.size/2

	x0 := max(0, int(math.Floor(left)))
	x1 := min(c.w, int(math.Ceil(left+p.size)))
	y0 := max(0, int(math.Floor(top)))
	y1 := min(c.h, int(math.Ceil(bottom)))

	tint := p.Tint
	if tint.A == 0 {
		tint = flatSprite
	}

	drawn := false
	for x := x0; x < x1; x++ {
		if x < len(depth) && p.camY >= depth[x] {
			continue
		}
		u := (float64(x) + 0.5 - left) / p.size
		if u < 0 || u >= 1 {
			continue
		}
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5 - top) / p.size
			if v < 0 || v >= 1 {
				continue
			}
			if tex != nil {
				s := tex.Sample(u, v)
				if s.A == 0 {
					continue
				}
				c.blend(x, y, c.light.apply(color.RGBA{s.R, s.G, s.B, 255}, p.camY, 1), s.A)
				drawn = true
				continue
			}
			// Flat fallback: an upright ellipse.
			ex, ey := (u-0.5)*2, (v-0.5)*2
			if ex*ex+ey*ey > 1 {
				continue
			}
			c.blend(x, y, c.light.apply(tint, p.camY, 1), 255)
			drawn = true
		}
	}
	return drawn
}
