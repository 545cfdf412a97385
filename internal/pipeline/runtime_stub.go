//go:build !govips || !cgo

package pipeline

import "github.com/dunamismax/pixelproxy/internal/config"

// Startup and Shutdown manage the native imaging runtime; the pure-Go backend
// needs neither.
func Startup(config.VipsConfig) error {
	return nil
}

func Shutdown() {}

func newTransformer() (Transformer, error) {
	return imagingTransformer{}, nil
}
