// Package term is the terminal front-end: the first-person view drawn with
// half-block cells, a side panel for the party and the battle, keyboard
// intents and speaker cues.
package term

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"crawler/internal/assets"
	"crawler/internal/game"
	"crawler/internal/mapgen"
	"crawler/internal/render"
	"crawler/internal/save"
	"crawler/internal/sfx/speaker"
	"crawler/internal/view"

	"github.com/gdamore/tcell/v2"
)

const (
	panelWidth = 44
	tick       = 120 * time.Millisecond
)

// Client owns one game in a terminal. Everything runs on the Run goroutine
// except texture loads, which signal redraw.
type Client struct {
	Engine *game.Engine
	State  *game.GameState
	Screen tcell.Screen
	Loader assets.Loader
	Saves  save.Storage    // optional
	Sound  *speaker.Player // optional
	UserID string
	MapDir string // where M writes the floor map PDF
	Logger *log.Logger

	cache    *assets.Cache
	renderer *render.Renderer
	redraw   chan struct{}
	started  time.Time
	target   int
	message  string
}

func (c *Client) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

// Run draws and handles keys until the player quits or ctx ends.
func (c *Client) Run(ctx context.Context) error {
	if c.State == nil {
		c.State = c.Engine.NewGame()
	}
	c.redraw = make(chan struct{}, 1)
	c.started = time.Now()
	c.cache = assets.NewCache(c.Loader, c.logger(), func(string) {
		select {
		case c.redraw <- struct{}{}:
		default:
		}
	})
	defer c.cache.Close()
	c.cache.Request(view.Keys(c.State)...)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := c.Screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	c.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.draw()
		case <-c.redraw:
			c.draw()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				c.Screen.Sync()
				c.renderer = nil
			case *tcell.EventKey:
				if !c.handleKey(ctx, ev) {
					return nil
				}
			}
			c.draw()
		}
	}
}

func (c *Client) keyInput() keyInput {
	in := keyInput{inCombat: c.State.InCombat(), target: c.target, ally: weakestAlly(c.State.Party)}
	if in.inCombat {
		if who, ok := c.State.Combat.Actor(); ok && who.Side == game.SideParty {
			in.member = who.Index
			in.abilities = c.Engine.Catalog.AbilitiesFor(c.State.Party[who.Index].Job)
		}
	}
	return in
}

// handleKey reports false when the player quits.
func (c *Client) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	in, cmd, ok := mapKey(ev.Key(), ev.Rune(), c.keyInput())
	if !ok {
		return true
	}
	switch cmd {
	case cmdQuit:
		return false
	case cmdNextTarget:
		c.target = nextTarget(c.State, c.target)
		return true
	case cmdSave:
		c.save(ctx)
		return true
	case cmdLoad:
		c.load(ctx)
		return true
	case cmdMap:
		c.exportMap()
		return true
	}
	c.apply(in)
	return true
}

func (c *Client) apply(in game.Intent) {
	res, err := c.Engine.Apply(c.State, in)
	if err != nil {
		c.message = err.Error()
		return
	}
	c.message = res.Message
	if c.State.InCombat() {
		c.target = firstLiving(c.State, c.target)
	} else {
		c.target = 0
	}
	c.cache.Request(view.Keys(c.State)...)
	if c.Sound != nil {
		c.Sound.Play(res.Events)
	}
}

func (c *Client) save(ctx context.Context) {
	if c.Saves == nil {
		c.message = "Saving is disabled."
		return
	}
	if _, err := c.Saves.Save(ctx, c.UserID, c.State); err != nil {
		c.message = "Save failed: " + err.Error()
		c.logger().Printf("term: save: %v", err)
		return
	}
	c.message = "Game saved."
}

func (c *Client) load(ctx context.Context) {
	if c.Saves == nil {
		c.message = "Saving is disabled."
		return
	}
	st, err := c.Saves.Load(ctx, c.UserID)
	if errors.Is(err, save.ErrNotFound) {
		c.message = "No saved game."
		return
	}
	if err != nil {
		c.message = "Load failed: " + err.Error()
		return
	}
	c.State = st
	c.target = 0
	c.cache.Request(view.Keys(st)...)
	c.message = "Game loaded."
}

func (c *Client) exportMap() {
	pdf, err := mapgen.Generate(c.State.Map, mapgen.Pose{X: c.State.X, Y: c.State.Y, Facing: c.State.Dir}, c.State.Level, "")
	if err != nil {
		c.message = err.Error()
		return
	}
	path := filepath.Join(c.MapDir, fmt.Sprintf("floor-%d.pdf", c.State.Level))
	if err := os.WriteFile(path, pdf, 0o600); err != nil {
		c.message = "Map export failed: " + err.Error()
		return
	}
	c.message = "Map written to " + path
}

func (c *Client) draw() {
	c.Screen.Clear()
	w, h := c.Screen.Size()
	cols := max(8, w-panelWidth-1)
	rows := max(4, h-1)
	if c.renderer == nil || c.renderer.Width != cols || c.renderer.Height != rows*2 {
		c.renderer = render.New(cols, rows*2, 1, c.cache)
	}
	frame := c.renderer.Render(view.Scene(c.State, time.Since(c.started).Seconds()))
	drawFrame(c.Screen, 0, 0, halfBlocks(frame.Image, cols, rows))

	px := cols + 1
	lines, styles := panelLines(c.State, c.target, c.message)
	for i, l := range lines {
		if i >= h {
			break
		}
		drawText(c.Screen, px, i, panelWidth, styles[i], l)
	}
	mapTop := len(lines) + 1
	for i, row := range minimapWindow(c.State, panelWidth, h-mapTop-1) {
		drawText(c.Screen, px, mapTop+i, panelWidth, styleText, row)
	}
	help := "arrows/wasd move  f fight  a atk  1-3 skill  d def  p potion  r flee  tab target  S/L save/load  M map  q quit"
	drawText(c.Screen, 0, h-1, w, styleText.Dim(true), help)
	c.Screen.Show()
}

// nextTarget cycles to the next living monster after cur.
func nextTarget(st *game.GameState, cur int) int {
	if !st.InCombat() {
		return 0
	}
	n := len(st.Combat.Monsters)
	for i := 1; i <= n; i++ {
		j := (cur + i) % n
		if st.Combat.Monsters[j].Alive() {
			return j
		}
	}
	return cur
}

// firstLiving keeps cur when that monster still stands.
func firstLiving(st *game.GameState, cur int) int {
	ms := st.Combat.Monsters
	if cur >= 0 && cur < len(ms) && ms[cur].Alive() {
		return cur
	}
	for i, m := range ms {
		if m.Alive() {
			return i
		}
	}
	return 0
}

// weakestAlly is the living member with the lowest HP share.
func weakestAlly(party []game.Player) int {
	best, bestShare := 0, 2.0
	for i := range party {
		p := &party[i]
		if !p.Alive() {
			continue
		}
		es := p.Effective()
		share := float64(p.HP) / float64(max(1, es.MaxHP))
		if share < bestShare {
			best, bestShare = i, share
		}
	}
	return best
}
