package dungeon

import "math/rand/v2"

// Start pose shared by every floor. The entrance door sits west of the start.
const (
	StartX      = 1
	StartY      = 1
	EntranceX   = 0
	EntranceY   = 1
	StartFacing = East

	minSize     = 5
	maxSize     = 40
	baseSize    = 16
	sizePerDeep = 4

	// extraEdgeChance opens a second passage from a lattice cell to cut dead ends.
	extraEdgeChance = 0.10
)

// SizeForFloor returns the square grid edge for a floor number (1-based).
func SizeForFloor(floor int) int {
	if floor < 1 {
		floor = 1
	}
	n := baseSize + (floor-1)*sizePerDeep
	if n > maxSize {
		n = maxSize
	}
	return n
}

var latticeSteps = [4][2]int{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

// Generate carves a maze of the given size for a floor. Every non-wall tile
// of the result is reachable from (StartX, StartY).
func Generate(width, height, floor int, rng *rand.Rand) Grid {
	if width < minSize {
		width = minSize
	}
	if height < minSize {
		height = minSize
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := NewGrid(width, height, Wall)
	g[StartY][StartX] = Floor
	g[StartY][StartX+1] = Floor
	g[StartY][StartX+2] = Floor

	carve(g, StartX+2, StartY, rng)
	addExtraEdges(g, rng)

	if floor <= 1 {
		g[EntranceY][EntranceX] = Door
	} else {
		g[StartY][StartX] = LadderUp
	}

	dx, dy := StartFacing.Delta()
	g[StartY+dy][StartX+dx] = Floor

	if x, y, ok := farthestFloor(g); ok {
		g[y][x] = LadderDown
	}
	return g
}

func inside(g Grid, x, y int) bool {
	return x > 0 && x < g.Width()-1 && y > 0 && y < g.Height()-1
}

// carve runs the backtracker with an explicit stack.
func carve(g Grid, sx, sy int, rng *rand.Rand) {
	stack := [][2]int{{sx, sy}}
	g[sy][sx] = Floor

	var open [4][2]int
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		n := 0
		for _, d := range latticeSteps {
			nx, ny := cur[0]+d[0], cur[1]+d[1]
			if inside(g, nx, ny) && g[ny][nx] == Wall {
				open[n] = [2]int{nx, ny}
				n++
			}
		}
		if n == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		next := open[rng.IntN(n)]
		g[(cur[1]+next[1])/2][(cur[0]+next[0])/2] = Floor
		g[next[1]][next[0]] = Floor
		stack = append(stack, next)
	}
}

// addExtraEdges only joins two cells that are already floor.
func addExtraEdges(g Grid, rng *rand.Rand) {
	var open [4][2]int
	for y := 1; y < g.Height()-1; y += 2 {
		for x := 1; x < g.Width()-1; x += 2 {
			if g[y][x] != Floor || rng.Float64() >= extraEdgeChance {
				continue
			}
			n := 0
			for _, d := range latticeSteps {
				nx, ny := x+d[0], y+d[1]
				if inside(g, nx, ny) && g[ny][nx] == Floor {
					open[n] = [2]int{nx, ny}
					n++
				}
			}
			if n == 0 {
				continue
			}
			o := open[rng.IntN(n)]
			g[(y+o[1])/2][(x+o[0])/2] = Floor
		}
	}
}

func farthestFloor(g Grid) (fx, fy int, ok bool) {
	best := 0
	for y := 1; y < g.Height()-1; y++ {
		for x := 1; x < g.Width()-1; x++ {
			if g[y][x] != Floor {
				continue
			}
			d := abs(x-StartX) + abs(y-StartY)
			if d > best {
				best, fx, fy, ok = d, x, y, true
			}
		}
	}
	return fx, fy, ok
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
