package term

import (
	"image"
	"image/color"
	"math/rand/v2"
	"strings"
	"testing"

	"crawler/internal/assets"
	"crawler/internal/game"

	"github.com/gdamore/tcell/v2"
)

func newState(t *testing.T) *game.GameState {
	t.Helper()
	return game.NewGame(game.DefaultCatalog(), rand.New(rand.NewPCG(5, 6)))
}

func TestMapKey_Exploration(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		r    rune
		kind game.IntentKind
		dir  string
	}{
		{tcell.KeyUp, 0, game.IntentMove, "north"},
		{tcell.KeyLeft, 0, game.IntentMove, "west"},
		{tcell.KeyRune, 'd', game.IntentMove, "east"},
		{tcell.KeyRune, 's', game.IntentMove, "south"},
		{tcell.KeyRune, 'f', game.IntentStartCombat, ""},
		{tcell.KeyRune, 'e', game.IntentToggleEditor, ""},
		{tcell.KeyRune, 'n', game.IntentRestart, ""},
	}
	for _, c := range cases {
		in, cmd, ok := mapKey(c.key, c.r, keyInput{})
		if !ok || cmd != cmdNone {
			t.Errorf("key %v %q: expected an intent, got ok=%v cmd=%v", c.key, c.r, ok, cmd)
			continue
		}
		if in.Kind != c.kind || in.Dir != c.dir {
			t.Errorf("key %v %q: expected %s %q, got %s %q", c.key, c.r, c.kind, c.dir, in.Kind, in.Dir)
		}
	}
}

func TestMapKey_Commands(t *testing.T) {
	cases := []struct {
		key tcell.Key
		r   rune
		cmd command
	}{
		{tcell.KeyEscape, 0, cmdQuit},
		{tcell.KeyRune, 'q', cmdQuit},
		{tcell.KeyTab, 0, cmdNextTarget},
		{tcell.KeyRune, 'S', cmdSave},
		{tcell.KeyRune, 'L', cmdLoad},
		{tcell.KeyRune, 'M', cmdMap},
	}
	for _, c := range cases {
		_, cmd, ok := mapKey(c.key, c.r, keyInput{inCombat: true})
		if !ok || cmd != c.cmd {
			t.Errorf("key %v %q: expected command %v, got %v (ok=%v)", c.key, c.r, c.cmd, cmd, ok)
		}
	}
}

func TestMapKey_Combat(t *testing.T) {
	cat := game.DefaultCatalog()
	mage := keyInput{inCombat: true, abilities: cat.AbilitiesFor(game.Mage), target: 2, member: 1, ally: 0}

	in, _, ok := mapKey(tcell.KeyRune, 'a', mage)
	if !ok || in.Kind != game.IntentAttack || in.Target != 2 {
		t.Errorf("Expected attack on target 2, got %+v", in)
	}
	in, _, _ = mapKey(tcell.KeyRune, '1', mage)
	if in.Kind != game.IntentAbility || in.Ability != "fireball" || in.Target != 2 {
		t.Errorf("Expected fireball on 2, got %+v", in)
	}
	in, _, _ = mapKey(tcell.KeyRune, '2', mage)
	if in.Ability != "heal" || in.Target != 0 {
		t.Errorf("Expected heal on weakest ally 0, got %+v", in)
	}
	if _, _, ok := mapKey(tcell.KeyRune, '3', mage); ok {
		t.Error("Expected no third skill for the mage")
	}

	fighter := keyInput{inCombat: true, abilities: cat.AbilitiesFor(game.Fighter)}
	in, _, _ = mapKey(tcell.KeyRune, '2', fighter)
	if in.Kind != game.IntentDefend {
		t.Errorf("Expected defend, got %+v", in)
	}
	in, _, _ = mapKey(tcell.KeyRune, 'r', fighter)
	if in.Kind != game.IntentFlee {
		t.Errorf("Expected flee, got %+v", in)
	}
	// Movement letters do not move during combat.
	if in, _, _ := mapKey(tcell.KeyRune, 'w', fighter); in.Kind == game.IntentMove {
		t.Error("Expected 'w' not to move during combat")
	}
}

func TestHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if y%2 == 0 {
				img.SetRGBA(x, y, red)
			} else {
				img.SetRGBA(x, y, blue)
			}
		}
	}
	cells := halfBlocks(img, 4, 2)
	if len(cells) != 2 || len(cells[0]) != 4 {
		t.Fatalf("Expected 2x4 cells, got %dx%d", len(cells), len(cells[0]))
	}
	for y := range cells {
		for x, c := range cells[y] {
			if c.top != red || c.bottom != blue {
				t.Errorf("cell (%d,%d): expected red over blue, got %v over %v", x, y, c.top, c.bottom)
			}
		}
	}
	if got := halfBlocks(img, 0, 0); len(got) != 0 {
		t.Errorf("Expected no rows, got %d", len(got))
	}
}

func TestPanelLines(t *testing.T) {
	st := newState(t)
	lines, styles := panelLines(st, 0, "hello")
	if len(lines) != len(styles) {
		t.Fatalf("lines and styles differ: %d vs %d", len(lines), len(styles))
	}
	if !strings.HasPrefix(lines[0], "Floor 1") {
		t.Errorf("Expected floor header, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Bork") {
		t.Errorf("Expected Bork on line 2, got %q", lines[1])
	}
	if lines[len(lines)-1] != "hello" {
		t.Errorf("Expected message last, got %q", lines[len(lines)-1])
	}
}

func TestMinimapWindow(t *testing.T) {
	st := newState(t)
	rows := minimapWindow(st, 7, 5)
	if len(rows) != 5 {
		t.Fatalf("Expected 5 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if len([]rune(r)) != 7 {
			t.Errorf("Expected width 7, got %d", len([]rune(r)))
		}
	}
	found := false
	for _, r := range rows {
		if strings.ContainsRune(r, '>') {
			found = true
		}
	}
	if !found {
		t.Error("Expected the party arrow inside the window")
	}
}

func TestTargets(t *testing.T) {
	st := newState(t)
	st.Combat = &game.Combat{Active: true, Monsters: []game.Monster{
		{Entity: game.Entity{Name: "a", HP: 5, MaxHP: 5}},
		{Entity: game.Entity{Name: "b", HP: 0, MaxHP: 5}},
		{Entity: game.Entity{Name: "c", HP: 5, MaxHP: 5}},
	}}
	if got := nextTarget(st, 0); got != 2 {
		t.Errorf("Expected next target 2, got %d", got)
	}
	if got := nextTarget(st, 2); got != 0 {
		t.Errorf("Expected wrap to 0, got %d", got)
	}
	if got := firstLiving(st, 1); got != 0 {
		t.Errorf("Expected first living 0, got %d", got)
	}
}

func TestWeakestAlly(t *testing.T) {
	st := newState(t)
	st.Party[0].HP = 1
	st.Party[1].HP = 0
	if got := weakestAlly(st.Party); got != 0 {
		t.Errorf("Expected 0, got %d", got)
	}
	st.Party[0].HP = st.Party[0].MaxHP
	st.Party[2].HP = 2
	if got := weakestAlly(st.Party); got != 2 {
		t.Errorf("Expected 2, got %d", got)
	}
}

func TestClient_DrawAndApply(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(100, 30)

	engine := game.NewEngine(nil, rand.NewPCG(7, 8))
	engine.EncounterChance = 0
	c := &Client{Engine: engine, State: engine.NewGame(), Screen: screen, Loader: assets.Generated{}}
	c.cache = assets.NewCache(c.Loader, nil, nil)
	defer c.cache.Close()

	c.draw()
	if c.renderer == nil || c.renderer.Width != 100-panelWidth-1 || c.renderer.Height != 2*29 {
		t.Fatalf("unexpected renderer size")
	}
	c.apply(game.Intent{Kind: game.IntentMove, Dir: "east"})
	if c.State.X != 2 {
		t.Errorf("Expected x=2, got %d", c.State.X)
	}
	c.apply(game.Intent{Kind: game.IntentStartCombat})
	if !c.State.InCombat() {
		t.Fatal("Expected combat")
	}
	if !c.State.Combat.Monsters[c.target].Alive() {
		t.Error("Expected target on a living monster")
	}
	c.draw()
}
