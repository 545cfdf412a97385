package main

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dunamismax/pixelproxy/internal/api"
	"github.com/dunamismax/pixelproxy/internal/cache"
	"github.com/dunamismax/pixelproxy/internal/config"
	"github.com/dunamismax/pixelproxy/internal/fetch"
	"github.com/dunamismax/pixelproxy/internal/imagespec"
	"github.com/dunamismax/pixelproxy/internal/pipeline"
	"github.com/dunamismax/pixelproxy/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	zerolog.SetGlobalLevel(logLevel(cfg.Log.Level))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Trace)
	if err != nil {
		log.Fatal().Err(err).Msg("failed setting up tracing")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	if err := pipeline.Startup(cfg.Vips); err != nil {
		log.Fatal().Err(err).Msg("failed starting imaging runtime")
	}
	defer pipeline.Shutdown()

	imgCache := cache.New(cfg.Cache.Capacity)
	processor, err := pipeline.NewProcessor(imgCache, fetch.New(cfg.Fetch.Timeout))
	if err != nil {
		log.Fatal().Err(err).Msg("failed building processor")
	}

	app := api.NewServer(processor, imgCache)
	httpServer := &http.Server{
		Addr:         cfg.API.Addr,
		Handler:      app.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("url", exampleURL(cfg.API.Addr)).Msg("example request")

	go func() {
		log.Info().Str("addr", cfg.API.Addr).Msg("proxy listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	log.Info().Msg("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown failed")
	}
}

// logLevel parses the configured zerolog level, falling back to info on
// anything unrecognized.
func logLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// exampleURL builds a ready-to-paste request against a public image so a fresh
// deployment can be smoke-tested by hand. Wildcard bind addresses are shown as
// localhost since that is what a local curl would dial.
func exampleURL(addr string) string {
	host := addr
	if h, port, err := net.SplitHostPort(addr); err == nil {
		if h == "" || h == "0.0.0.0" || h == "::" {
			h = "localhost"
		}
		host = net.JoinHostPort(h, port)
	}
	token := imagespec.Encode(imagespec.ImageSpec{
		imagespec.Resize{Width: 500, Height: 800, Filter: imagespec.ResampleCatmullRom},
		imagespec.Watermark{X: 20, Y: 20},
		imagespec.ColorFilter{Kind: imagespec.FilterMarine},
	})
	source := url.PathEscape("https://images.pexels.com/photos/1562477/pexels-photo-1562477.jpeg?auto=compress&cs=tinysrgb&dpr=3&h=750&w=1260")
	return "http://" + host + "/image/" + token + "/" + source
}
