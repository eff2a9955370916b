// Package assets resolves texture and sprite keys in the background. The
// renderer asks the cache without blocking and draws flat colour until a load
// lands.
package assets

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"

	"crawler/internal/render"
)

// ErrNotFound is returned by loaders that have nothing for a key.
var ErrNotFound = errors.New("asset not found")

// Loader fetches the bitmap for a key.
type Loader interface {
	Load(ctx context.Context, key string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, key string) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, key string) (image.Image, error) { return f(ctx, key) }

// Chain tries loaders in order and returns the first bitmap found.
type Chain []Loader

func (c Chain) Load(ctx context.Context, key string) (image.Image, error) {
	for _, l := range c {
		img, err := l.Load(ctx, key)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

type state int

const (
	statePending state = iota + 1
	stateReady
	stateFailed
)

// Cache owns every texture of one view. It is created with the view and
// closed with it; loads that finish after Close are dropped.
type Cache struct {
	loader Loader
	logger *log.Logger
	notify func(key string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	closed   bool
	state    map[string]state
	textures map[string]*render.Texture
}

// NewCache starts an empty cache. notify, if set, runs once for each key that
// finishes loading while the cache is open.
func NewCache(loader Loader, logger *log.Logger, notify func(key string)) *Cache {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		loader:   loader,
		logger:   logger,
		notify:   notify,
		ctx:      ctx,
		cancel:   cancel,
		state:    map[string]state{},
		textures: map[string]*render.Texture{},
	}
}

// Texture returns the texture for key if it is loaded. An unknown key starts
// a background load and reports false.
func (c *Cache) Texture(key string) (*render.Texture, bool) {
	c.mu.RLock()
	t, ok := c.textures[key]
	_, seen := c.state[key]
	closed := c.closed
	c.mu.RUnlock()
	if ok {
		return t, true
	}
	if !seen && !closed {
		c.Request(key)
	}
	return nil, false
}

// Request starts loads for keys that are neither loaded nor in flight.
func (c *Cache) Request(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.loader == nil {
		return
	}
	for _, key := range keys {
		if _, seen := c.state[key]; seen {
			continue
		}
		c.state[key] = statePending
		c.wg.Add(1)
		go c.load(key)
	}
}

func (c *Cache) load(key string) {
	defer c.wg.Done()
	img, err := c.loader.Load(c.ctx, key)

	var tex *render.Texture
	if err == nil {
		if render.IsSpriteKey(key) {
			tex = render.NewTexture(render.KeyBackground(img))
		} else {
			tex = render.NewTexture(img)
		}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state[key] = stateFailed
		c.mu.Unlock()
		if !errors.Is(err, ErrNotFound) {
			c.logger.Printf("assets: load %s: %v", key, err)
		}
		return
	}
	c.state[key] = stateReady
	c.textures[key] = tex
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(key)
	}
}

// Loaded reports how many textures are ready.
func (c *Cache) Loaded() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.textures)
}

// Wait blocks until every load started so far has returned.
func (c *Cache) Wait() {
	c.wg.Wait()
}

// Close drops all textures and cancels loads in flight.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.textures = map[string]*render.Texture{}
	c.mu.Unlock()
	c.cancel()
}
