package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":3000", cfg.API.Addr)
	assert.Equal(t, 1024, cfg.Cache.Capacity)
	assert.Equal(t, time.Duration(0), cfg.Fetch.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "none", cfg.Trace.Exporter)
	assert.Equal(t, 64, cfg.Vips.CacheMaxMemMB)
	assert.Equal(t, 50, cfg.Vips.CacheMaxOps)
	assert.Equal(t, 0, cfg.Vips.Concurrency)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PIXELPROXY_ADDR", ":8080")
	t.Setenv("PIXELPROXY_CACHE_CAPACITY", "64")
	t.Setenv("PIXELPROXY_FETCH_TIMEOUT", "30s")
	t.Setenv("PIXELPROXY_LOG_LEVEL", "debug")
	t.Setenv("PIXELPROXY_TRACE_EXPORTER", "stdout")
	t.Setenv("PIXELPROXY_VIPS_CACHE_MAX_MEM_MB", "256")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, 64, cfg.Cache.Capacity)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "stdout", cfg.Trace.Exporter)
	assert.Equal(t, 256, cfg.Vips.CacheMaxMemMB)
}
