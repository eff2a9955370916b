// Package raycast walks rays through a tile grid with DDA and reports the
// first blocking tile per screen column.
package raycast

import (
	"math"

	"crawler/internal/dungeon"
)

const (
	// PlaneMagnitude sets the horizontal field of view (about 66 degrees).
	PlaneMagnitude = 0.66
	// MaxDistance bounds every ray; anything farther counts as a far hit.
	MaxDistance = 20.0

	unreachable = 1e30
)

// Hit is the result of one column's ray.
type Hit struct {
	Distance float64 // perpendicular (fisheye-corrected)
	TextureU float64 // [0,1)
	Side     int     // 0: crossed an x boundary, 1: crossed a y boundary
	Tile     dungeon.Tile
	MapX     int
	MapY     int
	RayDirX  float64
	RayDirY  float64
	Far      bool // nothing blocking within MaxDistance or the ray left the grid
}

// Basis returns the view direction and camera plane for a facing.
func Basis(f dungeon.Facing) (dirX, dirY, planeX, planeY float64) {
	switch f {
	case dungeon.North:
		return 0, -1, PlaneMagnitude, 0
	case dungeon.South:
		return 0, 1, -PlaneMagnitude, 0
	case dungeon.East:
		return 1, 0, 0, PlaneMagnitude
	default:
		return -1, 0, 0, -PlaneMagnitude
	}
}

// Columns returns ceil(width/stride).
func Columns(width, stride int) int {
	if stride < 1 {
		stride = 1
	}
	if width < 1 {
		return 0
	}
	return (width + stride - 1) / stride
}

// Cast fires one ray per column group of stride pixels.
func Cast(g dungeon.Grid, posX, posY float64, f dungeon.Facing, width, stride int) []Hit {
	n := Columns(width, stride)
	hits := make([]Hit, n)
	dirX, dirY, planeX, planeY := Basis(f)
	for col := 0; col < n; col++ {
		cam := 2*float64(col)/float64(n) - 1
		hits[col] = CastRay(g, posX, posY, dirX+planeX*cam, dirY+planeY*cam)
	}
	return hits
}

// CastRay traces a single ray direction from (posX, posY).
func CastRay(g dungeon.Grid, posX, posY, rayDirX, rayDirY float64) Hit {
	mapX, mapY := int(math.Floor(posX)), int(math.Floor(posY))

	deltaX, deltaY := unreachable, unreachable
	if rayDirX != 0 {
		deltaX = math.Abs(1 / rayDirX)
	}
	if rayDirY != 0 {
		deltaY = math.Abs(1 / rayDirY)
	}

	var stepX, stepY int
	var sideX, sideY float64
	if rayDirX < 0 {
		stepX = -1
		sideX = (posX - float64(mapX)) * deltaX
	} else {
		stepX = 1
		sideX = (float64(mapX) + 1 - posX) * deltaX
	}
	if rayDirY < 0 {
		stepY = -1
		sideY = (posY - float64(mapY)) * deltaY
	} else {
		stepY = 1
		sideY = (float64(mapY) + 1 - posY) * deltaY
	}

	far := Hit{Distance: MaxDistance, Tile: dungeon.Wall, RayDirX: rayDirX, RayDirY: rayDirY, Far: true}

	side := 0
	// Each iteration crosses one boundary; a ray of length MaxDistance crosses
	// at most about 2*MaxDistance+2 of them.
	for steps := 0; steps < int(2*MaxDistance)+2; steps++ {
		if sideX < sideY {
			if sideX > MaxDistance {
				return far
			}
			sideX += deltaX
			mapX += stepX
			side = 0
		} else {
			if sideY > MaxDistance {
				return far
			}
			sideY += deltaY
			mapY += stepY
			side = 1
		}
		if !g.InBounds(mapX, mapY) {
			far.MapX, far.MapY = mapX, mapY
			return far
		}
		t := g[mapY][mapX]
		if t == dungeon.Floor {
			continue
		}

		var dist, wallX float64
		if side == 0 {
			dist = (float64(mapX) - posX + float64(1-stepX)/2) / rayDirX
			wallX = posY + dist*rayDirY
		} else {
			dist = (float64(mapY) - posY + float64(1-stepY)/2) / rayDirY
			wallX = posX + dist*rayDirX
		}
		if dist > MaxDistance {
			far.MapX, far.MapY = mapX, mapY
			return far
		}
		u := wallX - math.Floor(wallX)
		if (side == 0 && rayDirX > 0) || (side == 1 && rayDirY < 0) {
			u = 1 - u
			if u >= 1 {
				u = 0
			}
		}
		return Hit{
			Distance: math.Max(dist, 0),
			TextureU: u,
			Side:     side,
			Tile:     t,
			MapX:     mapX,
			MapY:     mapY,
			RayDirX:  rayDirX,
			RayDirY:  rayDirY,
		}
	}
	return far
}
