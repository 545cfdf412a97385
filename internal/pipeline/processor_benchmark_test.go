package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/dunamismax/pixelproxy/internal/cache"
	"github.com/dunamismax/pixelproxy/internal/imagespec"
)

func BenchmarkRender(b *testing.B) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: uint8(y % 255), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		b.Fatalf("encode source png: %v", err)
	}

	p, err := NewProcessor(cache.New(4), staticFetcher(buf.Bytes()))
	if err != nil {
		b.Fatalf("new processor: %v", err)
	}

	token := imagespec.Encode(imagespec.ImageSpec{
		imagespec.Resize{Width: 320, Height: 240, Filter: imagespec.ResampleCatmullRom},
		imagespec.Watermark{X: 20, Y: 20},
		imagespec.ColorFilter{Kind: imagespec.FilterMarine},
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Render(context.Background(), token, "https://example.com/bench.png"); err != nil {
			b.Fatalf("render: %v", err)
		}
	}
}
