// Package mapgen draws a printable PDF of the current dungeon floor in an
// old parchment style: the tile grid, doors and ladders, and an arrow where
// the party stands.
package mapgen

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"crawler/internal/dungeon"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	fontSize  = 8
	titleSize = 16
	labelSize = 7

	gridTop    = 130.0
	gridBottom = pageH - margin - 70
	maxCell    = 22.0
)

var ErrEmptyGrid = errors.New("mapgen: empty grid")

// Pose is the party's tile and facing.
type Pose struct {
	X, Y   int
	Facing dungeon.Facing
}

// Generate returns PDF bytes for floor's map with the party at pose.
func Generate(g dungeon.Grid, pose Pose, floor int, title string) ([]byte, error) {
	if g.Width() == 0 || g.Height() == 0 {
		return nil, ErrEmptyGrid
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Parchment background
	pdf.SetFillColor(245, 235, 210)
	pdf.Rect(0, 0, pageW, pageH, "F")
	drawWavyBorder(pdf)

	pdf.SetDrawColor(80, 50, 30)
	pdf.SetTextColor(80, 50, 30)
	pdf.SetLineWidth(1)

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin+12, margin+12)
	pdf.CellFormat(260, 16, fmt.Sprintf("Floor %d", floor), "", 0, "L", false, 0, "")
	if title != "" {
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.SetXY(margin+12, margin+30)
		pdf.CellFormat(260, 10, title, "", 0, "L", false, 0, "")
	}
	drawCompassRose(pdf, pageW-margin-55, margin+50)

	cell, ox, oy := layout(g.Width(), g.Height())
	drawGrid(pdf, g, cell, ox, oy)
	if g.InBounds(pose.X, pose.Y) {
		cx := ox + (float64(pose.X)+0.5)*cell
		cy := oy + (float64(pose.Y)+0.5)*cell
		drawParty(pdf, cx, cy, cell, pose.Facing)
	}
	drawLegend(pdf, oy+float64(g.Height())*cell+18)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// layout fits a w×h grid between the header and the legend, centred.
func layout(w, h int) (cell, ox, oy float64) {
	availW := float64(pageW - 2*margin - 40)
	availH := gridBottom - gridTop
	cell = math.Min(maxCell, math.Min(availW/float64(w), availH/float64(h)))
	ox = (pageW - cell*float64(w)) / 2
	oy = gridTop
	return cell, ox, oy
}

func drawGrid(pdf *gofpdf.Fpdf, g dungeon.Grid, cell, ox, oy float64) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			px, py := ox+float64(x)*cell, oy+float64(y)*cell
			switch g.At(x, y) {
			case dungeon.Wall:
				pdf.SetFillColor(120, 90, 60)
				pdf.Rect(px, py, cell, cell, "F")
			case dungeon.Door:
				drawDoor(pdf, px, py, cell)
			case dungeon.LadderDown:
				drawLadder(pdf, px, py, cell)
				drawX(pdf, px, py, cell)
			case dungeon.LadderUp:
				drawLadder(pdf, px, py, cell)
			}
		}
	}
	// Faint ink grid over the whole floor
	pdf.SetDrawColor(160, 130, 95)
	pdf.SetLineWidth(0.3)
	for x := 0; x <= g.Width(); x++ {
		px := ox + float64(x)*cell
		pdf.Line(px, oy, px, oy+float64(g.Height())*cell)
	}
	for y := 0; y <= g.Height(); y++ {
		py := oy + float64(y)*cell
		pdf.Line(ox, py, ox+float64(g.Width())*cell, py)
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1.5)
	pdf.Rect(ox, oy, float64(g.Width())*cell, float64(g.Height())*cell, "D")
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

func drawDoor(pdf *gofpdf.Fpdf, x, y, cell float64) {
	pdf.SetFillColor(150, 100, 50)
	pdf.Rect(x+cell*0.15, y+cell*0.1, cell*0.7, cell*0.8, "FD")
	pdf.Circle(x+cell*0.7, y+cell*0.5, cell*0.06, "D")
}

func drawLadder(pdf *gofpdf.Fpdf, x, y, cell float64) {
	pdf.SetDrawColor(80, 50, 30)
	pdf.SetLineWidth(0.8)
	pdf.Line(x+cell*0.3, y+cell*0.1, x+cell*0.3, y+cell*0.9)
	pdf.Line(x+cell*0.7, y+cell*0.1, x+cell*0.7, y+cell*0.9)
	for i := 1; i <= 3; i++ {
		ry := y + cell*0.1 + float64(i)*cell*0.2
		pdf.Line(x+cell*0.3, ry, x+cell*0.7, ry)
	}
	pdf.SetLineWidth(1)
}

// drawX marks the way down in red, treasure-map style.
func drawX(pdf *gofpdf.Fpdf, x, y, cell float64) {
	pdf.SetDrawColor(180, 40, 40)
	pdf.SetLineWidth(1.5)
	pdf.Line(x+cell*0.1, y+cell*0.1, x+cell*0.9, y+cell*0.9)
	pdf.Line(x+cell*0.1, y+cell*0.9, x+cell*0.9, y+cell*0.1)
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

// arrowPoints returns a triangle centred on (cx, cy) pointing along f.
func arrowPoints(cx, cy, size float64, f dungeon.Facing) []gofpdf.PointType {
	dx, dy := f.Delta()
	fx, fy := float64(dx), float64(dy)
	// Perpendicular to the facing.
	px, py := -fy, fx
	tip := size * 0.4
	base := size * 0.3
	return []gofpdf.PointType{
		{X: cx + fx*tip, Y: cy + fy*tip},
		{X: cx - fx*base + px*base, Y: cy - fy*base + py*base},
		{X: cx - fx*base - px*base, Y: cy - fy*base - py*base},
	}
}

func drawParty(pdf *gofpdf.Fpdf, cx, cy, cell float64, f dungeon.Facing) {
	pdf.SetFillColor(180, 40, 40)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Polygon(arrowPoints(cx, cy, cell, f), "FD")
	pdf.SetDrawColor(80, 50, 30)
}

func drawLegend(pdf *gofpdf.Fpdf, y float64) {
	const sw = 12.0
	x := float64(margin + 30)
	entries := []struct {
		label string
		draw  func(x, y float64)
	}{
		{"Wall", func(x, y float64) {
			pdf.SetFillColor(120, 90, 60)
			pdf.Rect(x, y, sw, sw, "F")
		}},
		{"Door", func(x, y float64) { drawDoor(pdf, x, y, sw) }},
		{"Ladder up", func(x, y float64) { drawLadder(pdf, x, y, sw) }},
		{"Ladder down", func(x, y float64) {
			drawLadder(pdf, x, y, sw)
			drawX(pdf, x, y, sw)
		}},
		{"Party", func(x, y float64) { drawParty(pdf, x+sw/2, y+sw/2, sw, dungeon.East) }},
	}
	pdf.SetFont("Helvetica", "", labelSize)
	pdf.SetTextColor(40, 25, 15)
	for _, e := range entries {
		e.draw(x, y)
		pdf.SetXY(x+sw+4, y+2)
		pdf.CellFormat(60, 8, e.label, "", 0, "L", false, 0, "")
		x += 95
	}
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetTextColor(80, 50, 30)
}

// drawWavyBorder draws an organic, tattered black border around the page.
func drawWavyBorder(pdf *gofpdf.Fpdf) {
	pts := wavyRectPoints(margin, margin, pageW-2*margin, pageH-2*margin, 12, 4)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(2)
	pdf.Polygon(pts, "D")
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

// wavyRectPoints returns polygon points for a rectangle with sinusoidal
// wobble on each side, walked clockwise from the top-left corner.
func wavyRectPoints(x, y, w, h float64, steps int, amp float64) []gofpdf.PointType {
	corners := [5][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}
	freq := [4][2]float64{{0.7, 0.5}, {0.6, 0.4}, {0.8, 0.3}, {0.5, 0.6}}
	pts := make([]gofpdf.PointType, 0, steps*4+1)
	for side := 0; side < 4; side++ {
		from, to := corners[side], corners[side+1]
		start := 1
		if side == 0 {
			start = 0
		}
		for i := start; i <= steps; i++ {
			t := float64(i) / float64(steps)
			pts = append(pts, gofpdf.PointType{
				X: from[0] + t*(to[0]-from[0]) + amp*math.Sin(float64(i)*freq[side][0]),
				Y: from[1] + t*(to[1]-from[1]) + amp*math.Cos(float64(i)*freq[side][1]),
			})
		}
	}
	return pts
}

// drawCompassRose draws an eight-point compass rose with N/S/E/W labels.
func drawCompassRose(pdf *gofpdf.Fpdf, cx, cy float64) {
	const rad = 22.0
	pdf.SetDrawColor(101, 67, 33)
	pdf.SetLineWidth(1)
	pdf.Circle(cx, cy, rad, "D")
	for i := 0; i < 8; i++ {
		angle := float64(i)*45.0*math.Pi/180 - math.Pi/2 // 0 = N
		if i%2 == 0 {
			pdf.SetDrawColor(180, 40, 40)
			pdf.SetLineWidth(1.5)
		} else {
			pdf.SetDrawColor(180, 140, 60)
			pdf.SetLineWidth(1)
		}
		pdf.Line(cx, cy, cx+rad*math.Cos(angle), cy+rad*math.Sin(angle))
	}
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(80, 50, 30)
	for _, lab := range []struct {
		label  string
		dx, dy float64
	}{
		{"N", 0, -rad - 10},
		{"S", 0, rad + 10},
		{"E", rad + 8, 0},
		{"W", -rad - 8, 0},
	} {
		pdf.SetXY(cx+lab.dx-4, cy+lab.dy-3)
		pdf.CellFormat(8, 6, lab.label, "", 0, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", fontSize)
}
