package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func tinyImage(c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestCache_LoadNotifiesOnce(t *testing.T) {
	loader := LoaderFunc(func(_ context.Context, key string) (image.Image, error) {
		return tinyImage(color.NRGBA{10, 20, 30, 255}), nil
	})
	var notified int32
	c := NewCache(loader, nil, func(string) { atomic.AddInt32(&notified, 1) })
	defer c.Close()

	if _, ok := c.Texture("wall_1"); ok {
		t.Fatal("texture reported ready before load")
	}
	c.Texture("wall_1")
	c.Request("wall_1")
	c.Wait()

	if _, ok := c.Texture("wall_1"); !ok {
		t.Fatal("texture not ready after load")
	}
	if n := atomic.LoadInt32(&notified); n != 1 {
		t.Errorf("notify called %d times, want 1", n)
	}
}

func TestCache_CloseDropsLateLoads(t *testing.T) {
	release := make(chan struct{})
	loader := LoaderFunc(func(_ context.Context, key string) (image.Image, error) {
		<-release
		return tinyImage(color.NRGBA{1, 2, 3, 255}), nil
	})
	var notified int32
	c := NewCache(loader, nil, func(string) { atomic.AddInt32(&notified, 1) })
	c.Request("floor_1", "cave_bat")
	c.Close()
	close(release)
	c.Wait()

	if n := atomic.LoadInt32(&notified); n != 0 {
		t.Errorf("notify called %d times after Close", n)
	}
	if c.Loaded() != 0 {
		t.Errorf("loaded = %d after Close, want 0", c.Loaded())
	}
	if _, ok := c.Texture("floor_1"); ok {
		t.Error("closed cache returned a texture")
	}
	c.Wait()
}

func TestCache_FailureIsLoggedAndNotRetried(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	loader := LoaderFunc(func(_ context.Context, key string) (image.Image, error) {
		mu.Lock()
		attempts++
		mu.Unlock()
		return nil, errors.New("disk on fire")
	})
	var buf bytes.Buffer
	c := NewCache(loader, log.New(&buf, "", 0), nil)
	defer c.Close()

	c.Request("wall_2")
	c.Wait()
	c.Texture("wall_2")
	c.Request("wall_2")
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if !strings.Contains(buf.String(), "disk on fire") {
		t.Errorf("log = %q, want the load error", buf.String())
	}
}

func TestCache_SpritesAreColorKeyed(t *testing.T) {
	loader := LoaderFunc(func(_ context.Context, key string) (image.Image, error) {
		return tinyImage(color.NRGBA{255, 255, 255, 255}), nil
	})
	c := NewCache(loader, nil, nil)
	defer c.Close()
	c.Request("cave_bat", "wall_1")
	c.Wait()

	bat, ok := c.Texture("cave_bat")
	if !ok {
		t.Fatal("sprite not loaded")
	}
	if a := bat.Sample(0.5, 0.5).A; a != 0 {
		t.Errorf("sprite backdrop alpha = %d, want 0", a)
	}
	wall, _ := c.Texture("wall_1")
	if a := wall.Sample(0.5, 0.5).A; a != 255 {
		t.Errorf("wall alpha = %d, want 255 (surfaces are not keyed)", a)
	}
}

func TestCache_LazyTextureStartsLoad(t *testing.T) {
	c := NewCache(Generated{}, nil, nil)
	defer c.Close()
	c.Texture("door_metal")
	waitFor(t, func() bool {
		_, ok := c.Texture("door_metal")
		return ok
	})
}

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, tinyImage(color.NRGBA{9, 9, 9, 255})); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "wall_1.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	d := DirLoader{Dir: dir}
	ctx := context.Background()

	img, err := d.Load(ctx, "wall_1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("width = %d, want 4", img.Bounds().Dx())
	}
	for _, key := range []string{"missing", "../wall_1", "a/b", ""} {
		if _, err := d.Load(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%q) err = %v, want ErrNotFound", key, err)
		}
	}
}

func TestChain_FallsThroughToGenerated(t *testing.T) {
	ch := Chain{DirLoader{Dir: t.TempDir()}, Generated{}}
	ctx := context.Background()
	for _, key := range []string{"wall_1", "wall_7", "floor_2", "door_metal"} {
		img, err := ch.Load(ctx, key)
		if err != nil {
			t.Errorf("Load(%q): %v", key, err)
			continue
		}
		if img.Bounds().Dx() != texSize {
			t.Errorf("Load(%q) width = %d, want %d", key, img.Bounds().Dx(), texSize)
		}
	}
	if _, err := ch.Load(ctx, "dragon"); !errors.Is(err, ErrNotFound) {
		t.Errorf("sprite key err = %v, want ErrNotFound", err)
	}
}

func TestGeneratedWall_DeeperIsDarker(t *testing.T) {
	a := generateWall(1).RGBAAt(4, 4)
	b := generateWall(6).RGBAAt(4, 4)
	if int(b.R)+int(b.G)+int(b.B) >= int(a.R)+int(a.G)+int(a.B) {
		t.Errorf("floor 6 stone %v not darker than floor 1 %v", b, a)
	}
}
