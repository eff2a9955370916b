package mapgen

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"crawler/internal/dungeon"
)

func TestGenerate_EmptyGrid(t *testing.T) {
	b, err := Generate(nil, Pose{X: 1, Y: 1}, 1, "")
	if !errors.Is(err, ErrEmptyGrid) {
		t.Fatalf("Expected ErrEmptyGrid, got %v", err)
	}
	if b != nil {
		t.Error("expected nil PDF for empty grid")
	}
}

func TestGenerate_ReturnsPDF(t *testing.T) {
	g := dungeon.Generate(16, 16, 2, rand.New(rand.NewPCG(1, 2)))
	b, err := Generate(g, Pose{X: 1, Y: 1, Facing: dungeon.East}, 2, "Test Crawl")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(b) < 100 {
		t.Errorf("PDF too short: %d bytes", len(b))
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_PoseOffGrid(t *testing.T) {
	g := dungeon.NewGrid(5, 5, dungeon.Floor)
	b, err := Generate(g, Pose{X: 40, Y: -3, Facing: dungeon.North}, 1, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestArrowPoints_FollowFacing(t *testing.T) {
	cases := []struct {
		f      dungeon.Facing
		dx, dy float64
	}{
		{dungeon.North, 0, -4},
		{dungeon.East, 4, 0},
		{dungeon.South, 0, 4},
		{dungeon.West, -4, 0},
	}
	for _, c := range cases {
		pts := arrowPoints(100, 100, 10, c.f)
		if len(pts) != 3 {
			t.Fatalf("Expected 3 points, got %d", len(pts))
		}
		tip := pts[0]
		if tip.X != 100+c.dx || tip.Y != 100+c.dy {
			t.Errorf("facing %s: expected tip (%v,%v), got (%v,%v)", c.f, 100+c.dx, 100+c.dy, tip.X, tip.Y)
		}
	}
}

func TestLayout_FitsPage(t *testing.T) {
	for _, n := range []int{5, 16, 40} {
		cell, ox, oy := layout(n, n)
		if cell <= 0 || cell > maxCell {
			t.Errorf("size %d: cell %v out of range", n, cell)
		}
		if ox < margin || ox+cell*float64(n) > pageW-margin {
			t.Errorf("size %d: grid spills horizontally (ox %v)", n, ox)
		}
		if oy+cell*float64(n) > gridBottom+0.001 {
			t.Errorf("size %d: grid spills vertically", n)
		}
	}
}

func TestWavyRectPoints_Count(t *testing.T) {
	pts := wavyRectPoints(0, 0, 100, 100, 12, 4)
	if len(pts) != 12*4+1 {
		t.Errorf("Expected %d points, got %d", 12*4+1, len(pts))
	}
}
