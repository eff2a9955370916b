package term

import (
	"fmt"
	"image"
	"image/color"

	"crawler/internal/game"
	"crawler/internal/view"

	"github.com/gdamore/tcell/v2"
)

// halfBlock is one terminal cell showing two stacked pixels with '▀': the
// foreground paints the top pixel, the background the bottom one.
type halfBlock struct {
	top, bottom color.RGBA
}

// halfBlocks samples img into cols×rows cells, two pixel rows per cell.
func halfBlocks(img *image.RGBA, cols, rows int) [][]halfBlock {
	out := make([][]halfBlock, rows)
	if cols <= 0 || rows <= 0 {
		return out
	}
	b := img.Bounds()
	for y := 0; y < rows; y++ {
		out[y] = make([]halfBlock, cols)
		ty := b.Min.Y + (2*y)*b.Dy()/(2*rows)
		by := b.Min.Y + (2*y+1)*b.Dy()/(2*rows)
		for x := 0; x < cols; x++ {
			px := b.Min.X + x*b.Dx()/cols
			out[y][x] = halfBlock{top: img.RGBAAt(px, ty), bottom: img.RGBAAt(px, by)}
		}
	}
	return out
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func drawFrame(s tcell.Screen, x0, y0 int, cells [][]halfBlock) {
	for y, row := range cells {
		for x, c := range row {
			st := tcell.StyleDefault.Foreground(rgb(c.top)).Background(rgb(c.bottom))
			s.SetContent(x0+x, y0+y, '▀', nil, st)
		}
	}
}

// drawText writes str at (x, y), clipped to width cells.
func drawText(s tcell.Screen, x, y, width int, st tcell.Style, str string) {
	i := 0
	for _, r := range str {
		if i >= width {
			return
		}
		s.SetContent(x+i, y, r, nil, st)
		i++
	}
}

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDead   = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	styleActing = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleTarget = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleMsg    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// panelLines lays out the side panel: floor, party, battle, messages.
func panelLines(st *game.GameState, target int, msg string) ([]string, []tcell.Style) {
	var lines []string
	var styles []tcell.Style
	add := func(s tcell.Style, format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
		styles = append(styles, s)
	}

	add(styleTitle, "Floor %d  %s  %dg", st.Level, st.Dir, st.Gold)
	var actor game.Combatant
	var acting bool
	if st.Combat != nil {
		actor, acting = st.Combat.Actor()
	}
	for i := range st.Party {
		p := &st.Party[i]
		es := p.Effective()
		s := styleText
		switch {
		case !p.Alive():
			s = styleDead
		case acting && actor.Side == game.SideParty && actor.Index == i:
			s = styleActing
		}
		add(s, "%-5s %-7s L%-2d HP %3d/%-3d MP %2d/%-2d", p.Name, p.Job, p.Level, p.HP, es.MaxHP, p.MP, es.MaxMP)
	}
	if st.InCombat() {
		add(styleTitle, "-- battle, round %d --", st.Combat.Round)
		for i, m := range st.Combat.Monsters {
			s := styleText
			mark := " "
			switch {
			case !m.Alive():
				s = styleDead
			case i == target:
				s, mark = styleTarget, ">"
			}
			add(s, "%s%d %-16s %3d/%-3d", mark, i+1, m.Name, m.HP, m.MaxHP)
		}
		log := st.Combat.Log
		if len(log) > 4 {
			log = log[len(log)-4:]
		}
		for _, l := range log {
			add(styleText, "%s", l)
		}
	}
	if st.GameOver {
		add(styleDead, "The party has fallen. [n] new game")
	}
	if st.Editor {
		add(styleMsg, "editor on")
	}
	if msg != "" {
		add(styleMsg, "%s", msg)
	}
	return lines, styles
}

// minimapWindow crops the minimap to w×h centred on the party.
func minimapWindow(st *game.GameState, w, h int) []string {
	rows := view.Minimap(st)
	if w <= 0 || h <= 0 || len(rows) == 0 {
		return nil
	}
	y0 := clampInt(st.Y-h/2, 0, max(0, len(rows)-h))
	x0 := clampInt(st.X-w/2, 0, max(0, len([]rune(rows[0]))-w))
	var out []string
	for y := y0; y < min(len(rows), y0+h); y++ {
		r := []rune(rows[y])
		out = append(out, string(r[x0:min(len(r), x0+w)]))
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
