package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"crawler/internal/dungeon"
	"crawler/internal/raycast"
)

func openRoom(w, h int) dungeon.Grid {
	g := dungeon.NewGrid(w, h, dungeon.Wall)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			g[y][x] = dungeon.Floor
		}
	}
	return g
}

func solid(w, h int, c color.NRGBA) *Texture {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return NewTexture(img)
}

func TestFlicker_StaysNearOne(t *testing.T) {
	for i := 0; i < 1000; i++ {
		f := Flicker(float64(i) * 0.037)
		if f < 0.9 || f > 1.0 {
			t.Fatalf("Flicker(%v) = %v out of [0.9,1.0]", float64(i)*0.037, f)
		}
	}
}

func TestRender_FlatFallbackWithoutTextures(t *testing.T) {
	r := New(64, 48, 2, nil)
	fr := r.Render(Scene{Grid: openRoom(8, 8), PosX: 1.5, PosY: 1.5, Facing: dungeon.East, Floor: 1})
	if fr.Image.Bounds().Dx() != 64 || fr.Image.Bounds().Dy() != 48 {
		t.Fatalf("frame size = %v", fr.Image.Bounds())
	}
	if fr.Planes != "flat" {
		t.Errorf("planes backend = %q, want flat", fr.Planes)
	}
	if len(fr.Depth) != 64 {
		t.Errorf("depth len = %d, want 64", len(fr.Depth))
	}
	// Middle of the screen is wall, opaque.
	if c := fr.Image.RGBAAt(32, 24); c.A != 255 {
		t.Errorf("center pixel alpha = %d", c.A)
	}
}

func TestRender_TexturedWhenAvailable(t *testing.T) {
	src := MapSource{
		FloorKey(2): solid(8, 8, color.NRGBA{200, 0, 0, 255}),
		WallKey(2):  solid(8, 8, color.NRGBA{0, 200, 0, 255}),
	}
	r := New(40, 40, 1, src)
	r.Flicker = false
	g := openRoom(5, 5)
	fr := r.Render(Scene{Grid: g, PosX: 2.5, PosY: 2.5, Facing: dungeon.East, Floor: 2})
	if fr.Planes != "textured" {
		t.Fatalf("planes backend = %q, want textured", fr.Planes)
	}
	wall := fr.Image.RGBAAt(20, 20)
	if wall.G <= wall.R || wall.G <= wall.B {
		t.Errorf("wall pixel %v is not green-dominant", wall)
	}
	floor := fr.Image.RGBAAt(20, 39)
	if floor.R <= floor.G || floor.R <= floor.B {
		t.Errorf("floor pixel %v is not red-dominant", floor)
	}
}

func TestRender_MissingWallTextureFallsBack(t *testing.T) {
	src := MapSource{FloorKey(1): solid(4, 4, color.NRGBA{10, 10, 10, 255})}
	r := New(32, 32, 1, src)
	r.Flicker = false
	fr := r.Render(Scene{Grid: openRoom(5, 5), PosX: 2.5, PosY: 2.5, Facing: dungeon.North, Floor: 1})
	want := lighting{flicker: 1, fog: r.FogColor, density: r.FogDensity}
	hit := raycast.Cast(openRoom(5, 5), 2.5, 2.5, dungeon.North, 32, 1)[16]
	shade := 1.0
	if hit.Side == 1 {
		shade = sideShade
	}
	exp := want.apply(flatWallColor, hit.Distance, shade)
	if got := fr.Image.RGBAAt(16, 16); got != exp {
		t.Errorf("wall pixel = %v, want flat %v", got, exp)
	}
}

func TestLighting_FogAndSideShade(t *testing.T) {
	l := lighting{flicker: 1, fog: DefaultFogColor, density: DefaultFogDensity}
	base := color.RGBA{200, 200, 200, 255}
	near := l.apply(base, 1, 1)
	side := l.apply(base, 1, sideShade)
	far := l.apply(base, 30, 1)
	if side.R >= near.R {
		t.Errorf("side shade %v should be darker than %v", side, near)
	}
	if math.Abs(float64(far.R)-float64(DefaultFogColor.R)) > 1 || math.Abs(float64(far.B)-float64(DefaultFogColor.B)) > 1 {
		t.Errorf("far pixel %v should be fog %v", far, DefaultFogColor)
	}
}

func TestRender_SpriteInFrontIsVisible(t *testing.T) {
	r := New(64, 48, 1, nil)
	g := openRoom(12, 5)
	fr := r.Render(Scene{
		Grid: g, PosX: 1.5, PosY: 2.5, Facing: dungeon.East, Floor: 1,
		Sprites: []Sprite{{ID: "bat", Key: "cave_bat", X: 4.5, Y: 2.5, Scale: 0.5}},
	})
	if len(fr.Visible) != 1 || fr.Visible[0] != "bat" {
		t.Errorf("visible = %v, want [bat]", fr.Visible)
	}
}

func TestRender_SpriteBehindWallIsOccluded(t *testing.T) {
	g := openRoom(12, 5)
	for y := 0; y < 5; y++ {
		g[y][4] = dungeon.Wall
	}
	r := New(64, 48, 1, nil)
	fr := r.Render(Scene{
		Grid: g, PosX: 1.5, PosY: 2.5, Facing: dungeon.East, Floor: 1,
		Sprites: []Sprite{{ID: "rat", Key: "giant_rat", X: 6.5, Y: 2.5, Scale: 0.6}},
	})
	if len(fr.Visible) != 0 {
		t.Errorf("visible = %v, want none behind the wall", fr.Visible)
	}
	for x, d := range fr.Depth {
		if d >= 5 {
			t.Errorf("column %d depth %v, expected the wall at 2.5", x, d)
		}
	}
}

func TestRender_SpriteBehindCameraIsCulled(t *testing.T) {
	r := New(32, 32, 1, nil)
	fr := r.Render(Scene{
		Grid: openRoom(8, 5), PosX: 4.5, PosY: 2.5, Facing: dungeon.East,
		Sprites: []Sprite{{ID: "behind", X: 2.5, Y: 2.5}, {ID: "level", X: 4.5, Y: 2.5}},
	})
	if len(fr.Visible) != 0 {
		t.Errorf("visible = %v, want none", fr.Visible)
	}
}

func TestRender_NearSpriteDrawnOverFar(t *testing.T) {
	src := MapSource{
		"near": solid(4, 4, color.NRGBA{0, 0, 250, 255}),
		"far":  solid(4, 4, color.NRGBA{250, 0, 0, 255}),
	}
	r := New(64, 64, 1, src)
	r.Flicker = false
	fr := r.Render(Scene{
		Grid: openRoom(14, 5), PosX: 1.5, PosY: 2.5, Facing: dungeon.East,
		Sprites: []Sprite{
			{ID: "n", Key: "near", X: 3.5, Y: 2.5, Scale: 0.8},
			{ID: "f", Key: "far", X: 6.5, Y: 2.5, Scale: 0.8},
		},
	})
	if len(fr.Visible) != 2 || fr.Visible[0] != "f" || fr.Visible[1] != "n" {
		t.Fatalf("visible order = %v, want [f n]", fr.Visible)
	}
	c := fr.Image.RGBAAt(32, 35)
	if c.B <= c.R {
		t.Errorf("overlap pixel %v should come from the near sprite", c)
	}
}

func TestProject_ScreenX(t *testing.T) {
	dirX, dirY, planeX, planeY := raycast.Basis(dungeon.North)
	c := &canvas{w: 100, h: 100, posX: 5.5, posY: 5.5, dirX: dirX, dirY: dirY, planeX: planeX, planeY: planeY}
	p, ok := c.project(Sprite{X: 6.5, Y: 3.5})
	if !ok {
		t.Fatal("sprite ahead was culled")
	}
	if math.Abs(p.camY-2) > 1e-9 || math.Abs(p.camX-1) > 1e-9 {
		t.Fatalf("camera space = (%v,%v), want (1,2)", p.camX, p.camY)
	}
	want := 50 + 0.5*50/raycast.PlaneMagnitude
	if math.Abs(p.screenX-want) > 1e-9 {
		t.Errorf("screenX = %v, want %v", p.screenX, want)
	}
	if math.Abs(p.size-50) > 1e-9 {
		t.Errorf("size = %v, want 50", p.size)
	}
}
