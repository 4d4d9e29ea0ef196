package pattern

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/swatch/internal/cache"
	"github.com/gogpu/swatch/raster"
)

// DefaultCacheSize is the number of textures a Cache keeps.
const DefaultCacheSize = 16

// Cache keeps synthesized textures per Key. A texture is a pure function of
// its key for the life of the cache, so it is reused until evicted.
// Concurrent misses on the same key share one synthesis.
type Cache struct {
	synth     *Synthesizer
	lru       *cache.Cache[Key, *raster.Pixmap]
	group     singleflight.Group
	syntheses atomic.Int64
}

// NewCache returns a cache holding up to limit textures. A non-positive
// limit uses DefaultCacheSize.
func NewCache(s *Synthesizer, limit int) *Cache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	return &Cache{synth: s, lru: cache.New[Key, *raster.Pixmap](limit)}
}

// Texture returns the cached texture for m and cfg, synthesizing it on a
// miss.
func (c *Cache) Texture(ctx context.Context, m Material, cfg Config) (*raster.Pixmap, error) {
	key := KeyFor(m, cfg)
	if tex, ok := c.lru.Get(key); ok {
		return tex, nil
	}
	tex, err := c.synthesize(ctx, key, m, cfg)
	if err != nil {
		return nil, err
	}
	c.lru.Set(key, tex)
	return tex, nil
}

// Lookup returns a cached texture without synthesizing.
func (c *Cache) Lookup(key Key) (*raster.Pixmap, bool) {
	return c.lru.Get(key)
}

// Store puts a texture into the cache.
func (c *Cache) Store(key Key, tex *raster.Pixmap) {
	c.lru.Set(key, tex)
}

// Invalidate drops every texture of the given material.
func (c *Cache) Invalidate(materialID string) {
	for _, k := range c.lru.Keys() {
		if k.MaterialID == materialID {
			c.lru.Delete(k)
		}
	}
}

// Syntheses returns how many times the cache ran the synthesizer.
func (c *Cache) Syntheses() int64 { return c.syntheses.Load() }

// Stats returns hit and miss counters of the underlying LRU.
func (c *Cache) Stats() cache.Stats { return c.lru.Stats() }

// synthesize runs one shared synthesis for key. If the caller that started
// the shared run was cancelled but ctx is still live, it runs again.
func (c *Cache) synthesize(ctx context.Context, key Key, m Material, cfg Config) (*raster.Pixmap, error) {
	for range 2 {
		v, err, _ := c.group.Do(key.String(), func() (any, error) {
			// A flight that just finished may have stored the texture
			// after this caller's miss.
			if tex, ok := c.lru.Peek(key); ok {
				return tex, nil
			}
			c.syntheses.Add(1)
			return c.synth.Synthesize(ctx, m, cfg)
		})
		if err == nil {
			return v.(*raster.Pixmap), nil
		}
		if !errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, context.Canceled
}
