//go:build govips && cgo

package pipeline

import (
	"sync"

	"github.com/davidbyttow/govips/v2/vips"

	"github.com/dunamismax/pixelproxy/internal/config"
)

var (
	startupOnce sync.Once
	shutdownMu  sync.Mutex
	started     bool
)

// Startup initializes libvips with the configured tuning. Sources arrive as
// in-memory bytes, so the file cache stays disabled.
func Startup(cfg config.VipsConfig) error {
	startupOnce.Do(func() {
		vips.Startup(&vips.Config{
			ConcurrencyLevel: cfg.Concurrency,
			MaxCacheFiles:    0,
			MaxCacheMem:      cfg.CacheMaxMemMB * 1024 * 1024,
			MaxCacheSize:     cfg.CacheMaxOps,
		})

		shutdownMu.Lock()
		started = true
		shutdownMu.Unlock()
	})
	return nil
}

func Shutdown() {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if !started {
		return
	}
	vips.Shutdown()
	started = false
}

func newTransformer() (Transformer, error) {
	return govipsTransformer{}, nil
}
