// Package dungeon holds the tile grid shared by the generator, the ray-caster,
// the renderer and saved games, and generates a fresh grid per floor.
package dungeon

import "fmt"

// Tile is a grid cell code. The numeric values are part of the save format.
type Tile int

const (
	Floor      Tile = 0
	Wall       Tile = 1
	Door       Tile = 2
	LadderDown Tile = 3
	LadderUp   Tile = 4
)

// Valid reports whether t is one of the known tile codes.
func (t Tile) Valid() bool {
	return t >= Floor && t <= LadderUp
}

func (t Tile) String() string {
	switch t {
	case Floor:
		return "floor"
	case Wall:
		return "wall"
	case Door:
		return "door"
	case LadderDown:
		return "ladder_down"
	case LadderUp:
		return "ladder_up"
	default:
		return fmt.Sprintf("tile(%d)", int(t))
	}
}

// Facing is one of the four cardinal view directions.
type Facing int

const (
	North Facing = 0
	East  Facing = 1
	South Facing = 2
	West  Facing = 3
)

// Delta returns the unit grid step for f. Y grows southwards.
func (f Facing) Delta() (dx, dy int) {
	switch f {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

func (f Facing) Valid() bool {
	return f >= North && f <= West
}

func (f Facing) String() string {
	switch f {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// ParseFacing accepts "north", "n", "N" and friends.
func ParseFacing(s string) (Facing, bool) {
	switch s {
	case "north", "n", "N", "up":
		return North, true
	case "east", "e", "E", "right":
		return East, true
	case "south", "s", "S", "down":
		return South, true
	case "west", "w", "W", "left":
		return West, true
	}
	return North, false
}

// Grid is a row-major tile array: g[y][x].
type Grid [][]Tile

// NewGrid returns a width×height grid filled with t.
func NewGrid(width, height int, t Tile) Grid {
	g := make(Grid, height)
	for y := range g {
		row := make([]Tile, width)
		for x := range row {
			row[x] = t
		}
		g[y] = row
	}
	return g
}

func (g Grid) Height() int { return len(g) }

func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func (g Grid) InBounds(x, y int) bool {
	return y >= 0 && y < len(g) && x >= 0 && x < len(g[y])
}

// At returns the tile at (x, y); anything outside the grid reads as Wall.
func (g Grid) At(x, y int) Tile {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g[y][x]
}

// Set writes t at (x, y) and reports whether the cell exists.
func (g Grid) Set(x, y int, t Tile) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g[y][x] = t
	return true
}

// Walkable reports whether a party may stand on (x, y).
func (g Grid) Walkable(x, y int) bool {
	return g.InBounds(x, y) && g[y][x] != Wall
}

func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]Tile(nil), row...)
	}
	return out
}

// Find returns the first cell holding t in row-major order.
func (g Grid) Find(t Tile) (x, y int, ok bool) {
	for y, row := range g {
		for x, c := range row {
			if c == t {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// Validate checks that the grid is rectangular, non-empty and holds only known codes.
func (g Grid) Validate() error {
	if len(g) == 0 || len(g[0]) == 0 {
		return fmt.Errorf("grid is empty")
	}
	w := len(g[0])
	for y, row := range g {
		if len(row) != w {
			return fmt.Errorf("grid row %d has width %d, want %d", y, len(row), w)
		}
		for x, c := range row {
			if !c.Valid() {
				return fmt.Errorf("grid cell (%d,%d) has unknown code %d", x, y, int(c))
			}
		}
	}
	return nil
}

// Reachable flood-fills from (x, y) through non-wall tiles and returns the
// visited set keyed by y*width+x.
func Reachable(g Grid, x, y int) map[int]bool {
	seen := map[int]bool{}
	if !g.Walkable(x, y) {
		return seen
	}
	w := g.Width()
	queue := [][2]int{{x, y}}
	seen[y*w+x] = true
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, f := range []Facing{North, East, South, West} {
			dx, dy := f.Delta()
			nx, ny := c[0]+dx, c[1]+dy
			if !g.Walkable(nx, ny) || seen[ny*w+nx] {
				continue
			}
			seen[ny*w+nx] = true
			queue = append(queue, [2]int{nx, ny})
		}
	}
	return seen
}

// Connected reports whether every non-wall tile is reachable from (x, y).
func Connected(g Grid, x, y int) bool {
	seen := Reachable(g, x, y)
	w := g.Width()
	for cy, row := range g {
		for cx, c := range row {
			if c != Wall && !seen[cy*w+cx] {
				return false
			}
		}
	}
	return true
}
