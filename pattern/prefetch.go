package pattern

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long a Prefetcher waits after the last Schedule
// before it starts synthesizing.
const DefaultDebounce = 100 * time.Millisecond

// Prefetcher synthesizes textures in the background ahead of a click.
// Each Schedule supersedes the previous one: a pending run is dropped, a
// running one is cancelled, and a result that finishes after being
// superseded is discarded instead of stored.
type Prefetcher struct {
	cache *Cache
	delay time.Duration

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewPrefetcher returns a prefetcher that fills c. A non-positive delay
// uses DefaultDebounce.
func NewPrefetcher(c *Cache, delay time.Duration) *Prefetcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Prefetcher{cache: c, delay: delay}
}

// Schedule requests a texture for m and cfg after the debounce delay.
// It returns immediately. Nothing is scheduled when the texture is
// already cached.
func (p *Prefetcher) Schedule(m Material, cfg Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.supersedeLocked()
	if m.Image.Empty() {
		return
	}
	if _, ok := p.cache.lru.Peek(KeyFor(m, cfg)); ok {
		return
	}

	gen := p.gen
	p.wg.Add(1)
	p.timer = time.AfterFunc(p.delay, func() {
		defer p.wg.Done()
		p.run(gen, m, cfg)
	})
}

// Cancel drops any pending or running prefetch.
func (p *Prefetcher) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.supersedeLocked()
}

// Wait blocks until every scheduled run has finished or been dropped.
func (p *Prefetcher) Wait() {
	p.wg.Wait()
}

// Close cancels outstanding work, waits for it and rejects further
// schedules.
func (p *Prefetcher) Close() {
	p.mu.Lock()
	p.closed = true
	p.supersedeLocked()
	p.mu.Unlock()
	p.wg.Wait()
}

// supersedeLocked invalidates the current generation. Caller holds p.mu.
func (p *Prefetcher) supersedeLocked() {
	p.gen++
	if p.timer != nil {
		if p.timer.Stop() {
			p.wg.Done()
		}
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Prefetcher) run(gen uint64, m Material, cfg Config) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	key := KeyFor(m, cfg)
	if _, ok := p.cache.lru.Peek(key); ok {
		return
	}
	tex, err := p.cache.synthesize(ctx, key, m, cfg)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		slogger().Debug("pattern: dropped stale prefetch", "key", key.String())
		return
	}
	p.cancel = nil
	if err != nil {
		slogger().Warn("pattern: prefetch failed", "key", key.String(), "err", err)
		return
	}
	// A foreground Texture call may have cached this key meanwhile; keep
	// the texture that may already be on screen.
	if _, ok := p.cache.lru.Peek(key); !ok {
		p.cache.Store(key, tex)
	}
}
