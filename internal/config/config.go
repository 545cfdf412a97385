// Package config loads process configuration from the environment.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API   APIConfig
	Cache CacheConfig
	Fetch FetchConfig
	Log   LogConfig
	Trace TraceConfig
	Vips  VipsConfig
}

type APIConfig struct {
	Addr string
}

type CacheConfig struct {
	// Capacity is the maximum number of cached source images.
	Capacity int
}

type FetchConfig struct {
	// Timeout bounds one upstream retrieval; zero leaves requests unbounded.
	Timeout time.Duration
}

type LogConfig struct {
	Level string
}

type TraceConfig struct {
	Exporter     string
	OTLPEndpoint string
	OTLPInsecure bool
}

// VipsConfig tunes the native imaging runtime; the pure-Go backend ignores it.
type VipsConfig struct {
	// CacheMaxMemMB bounds the libvips operation cache. Every response is
	// re-encoded anyway, so a modest cache suffices.
	CacheMaxMemMB int
	// CacheMaxOps caps how many operations the cache retains.
	CacheMaxOps int
	// Concurrency sets libvips worker threads per pipeline; zero keeps the
	// library default.
	Concurrency int
}

// Load reads PIXELPROXY_* environment variables over built-in defaults.
func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("pixelproxy")
	v.AutomaticEnv()

	v.SetDefault("addr", ":3000")
	v.SetDefault("cache_capacity", 1024)
	v.SetDefault("fetch_timeout", time.Duration(0))
	v.SetDefault("log_level", "info")
	v.SetDefault("trace_exporter", "none")
	v.SetDefault("otlp_endpoint", "")
	v.SetDefault("otlp_insecure", false)
	v.SetDefault("vips_cache_max_mem_mb", 64)
	v.SetDefault("vips_cache_max_ops", 50)
	v.SetDefault("vips_concurrency", 0)

	return Config{
		API: APIConfig{
			Addr: v.GetString("addr"),
		},
		Cache: CacheConfig{
			Capacity: v.GetInt("cache_capacity"),
		},
		Fetch: FetchConfig{
			Timeout: v.GetDuration("fetch_timeout"),
		},
		Log: LogConfig{
			Level: v.GetString("log_level"),
		},
		Trace: TraceConfig{
			Exporter:     v.GetString("trace_exporter"),
			OTLPEndpoint: v.GetString("otlp_endpoint"),
			OTLPInsecure: v.GetBool("otlp_insecure"),
		},
		Vips: VipsConfig{
			CacheMaxMemMB: v.GetInt("vips_cache_max_mem_mb"),
			CacheMaxOps:   v.GetInt("vips_cache_max_ops"),
			Concurrency:   v.GetInt("vips_concurrency"),
		},
	}
}
