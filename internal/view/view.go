// Package view turns a game state into what the renderer and the asset
// cache need.
package view

import (
	"hash/fnv"
	"image/color"

	"crawler/internal/dungeon"
	"crawler/internal/game"
	"crawler/internal/render"
)

// Battle sprites stand just inside the party's own tile so no wall can
// hide them.
const (
	battleDepth  = 0.45
	battleSpread = 0.15
	battleScale  = 0.25
)

var tints = []color.RGBA{
	{150, 60, 200, 255},
	{70, 170, 80, 255},
	{190, 70, 50, 255},
	{200, 170, 60, 255},
	{90, 120, 200, 255},
	{160, 160, 170, 255},
}

// Tint is a stable flat colour for a monster with no sprite art.
func Tint(name string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return tints[h.Sum32()%uint32(len(tints))]
}

// Scene is the frame description for st at time t seconds.
func Scene(st *game.GameState, t float64) render.Scene {
	s := render.Scene{
		Grid:   st.Map,
		PosX:   float64(st.X) + 0.5,
		PosY:   float64(st.Y) + 0.5,
		Facing: st.Dir,
		Floor:  st.Level,
		Time:   t,
	}
	if st.InCombat() {
		s.Sprites = battleSprites(st, s.PosX, s.PosY)
	}
	return s
}

func battleSprites(st *game.GameState, px, py float64) []render.Sprite {
	var living []game.Monster
	for _, m := range st.Combat.Monsters {
		if m.Alive() {
			living = append(living, m)
		}
	}
	dx, dy := st.Dir.Delta()
	// Camera right is the forward vector turned clockwise.
	rx, ry := -dy, dx
	out := make([]render.Sprite, 0, len(living))
	mid := float64(len(living)-1) / 2
	for i, m := range living {
		lateral := (float64(i) - mid) * battleSpread
		out = append(out, render.Sprite{
			ID:    m.ID,
			Key:   m.Sprite,
			X:     px + float64(dx)*battleDepth + float64(rx)*lateral,
			Y:     py + float64(dy)*battleDepth + float64(ry)*lateral,
			Scale: battleScale,
			Tint:  Tint(m.Name),
		})
	}
	return out
}

// Keys lists every texture st may draw: surfaces for the current floor, the
// door, and the sprites of the monsters on screen.
func Keys(st *game.GameState) []string {
	keys := []string{render.WallKey(st.Level), render.FloorKey(st.Level), render.DoorKey}
	if st.Combat != nil {
		for _, m := range st.Combat.Monsters {
			keys = append(keys, m.Sprite)
		}
	}
	return keys
}

// Minimap renders the grid as text rows with the party as an arrow, for
// logs and the terminal client's side panel.
func Minimap(st *game.GameState) []string {
	arrows := map[dungeon.Facing]rune{dungeon.North: '^', dungeon.East: '>', dungeon.South: 'v', dungeon.West: '<'}
	glyph := map[dungeon.Tile]rune{
		dungeon.Floor:      '.',
		dungeon.Wall:       '#',
		dungeon.Door:       '+',
		dungeon.LadderDown: 'D',
		dungeon.LadderUp:   'U',
	}
	rows := make([]string, st.Map.Height())
	for y := range st.Map {
		line := make([]rune, len(st.Map[y]))
		for x, t := range st.Map[y] {
			line[x] = glyph[t]
			if x == st.X && y == st.Y {
				line[x] = arrows[st.Dir]
			}
		}
		rows[y] = string(line)
	}
	return rows
}
