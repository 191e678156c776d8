// Package icon loads and caches waypoint icons.
package icon

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"sync"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// ErrLoadFailed wraps every open or decode failure. It is never fatal: Load
// returns the fallback icon alongside it.
var ErrLoadFailed = errors.New("icon load failed")

// Cache is a process-wide icon cache keyed by icon path. Entries live until
// Clear.
type Cache struct {
	fsys     fs.FS
	fallback image.Image
	group    singleflight.Group

	mu      sync.Mutex
	entries map[string]image.Image
	gen     uint64
}

// NewCache reads icons from fsys. A nil fallback is replaced by a plain
// gray square.
func NewCache(fsys fs.FS, fallback image.Image) *Cache {
	if fallback == nil {
		fallback = DefaultIcon(16)
	}
	return &Cache{
		fsys:     fsys,
		fallback: fallback,
		entries:  make(map[string]image.Image),
	}
}

// DefaultIcon returns a size×size gray square.
func DefaultIcon(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}}, image.Point{}, draw.Src)
	return img
}

// Fallback returns the image handed out when a load fails.
func (c *Cache) Fallback() image.Image { return c.fallback }

// Get returns a cached icon without loading.
func (c *Cache) Get(path string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.entries[path]
	return img, ok
}

// Len returns the number of cached icons.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear evicts every cached icon. Loads still in flight do not repopulate it.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]image.Image)
	c.gen++
}

// Load returns the icon at path, decoding it on first request. Concurrent
// requests for one path share a single decode. Cancelling ctx abandons only
// this caller's wait; the shared decode still completes and fills the cache.
func (c *Cache) Load(ctx context.Context, path string) (image.Image, error) {
	if img, ok := c.Get(path); ok {
		return img, nil
	}

	ch := c.group.DoChan(path, func() (any, error) {
		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		img, err := c.decode(path)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.entries[path] = img
		}
		c.mu.Unlock()

		log.Debug().Str("icon", path).Msg("Icon loaded")
		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			log.Warn().Err(res.Err).Str("icon", path).Msg("Using fallback icon")
			return c.fallback, fmt.Errorf("%w: %s: %v", ErrLoadFailed, path, res.Err)
		}
		return res.Val.(image.Image), nil
	}
}

func (c *Cache) decode(path string) (image.Image, error) {
	if !fs.ValidPath(path) {
		return nil, fmt.Errorf("invalid icon path %q", path)
	}

	f, err := c.fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	log.Trace().Str("icon", path).Str("format", format).Msg("Icon decoded")
	return img, nil
}
