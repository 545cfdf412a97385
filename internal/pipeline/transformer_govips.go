//go:build govips && cgo

package pipeline

import (
	"errors"
	"fmt"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/dunamismax/pixelproxy/internal/imagespec"
)

// govipsTransformer is the libvips-backed transformer. *vips.ImageRef already
// exposes Width/Height, so the ref itself is the Image handle; operations
// mutate it in place.
type govipsTransformer struct{}

func (govipsTransformer) Decode(data []byte) (Image, error) {
	img, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}
	return img, nil
}

func (govipsTransformer) Apply(img Image, op imagespec.Operation) (Image, error) {
	ref, ok := img.(*vips.ImageRef)
	if !ok {
		return nil, errors.New("govips transformer received a foreign image handle")
	}

	switch o := op.(type) {
	case imagespec.Resize:
		if o.Width == 0 || o.Height == 0 {
			return nil, fmt.Errorf("resize requires non-zero target dimensions, got %dx%d", o.Width, o.Height)
		}
		hscale := float64(o.Width) / float64(ref.Width())
		vscale := float64(o.Height) / float64(ref.Height())
		if err := ref.ResizeWithVScale(hscale, vscale, vipsKernel(o.Filter)); err != nil {
			return nil, fmt.Errorf("resize image: %w", err)
		}

	case imagespec.Watermark:
		if int(o.X) >= ref.Width() || int(o.Y) >= ref.Height() {
			return nil, fmt.Errorf("watermark position (%d,%d) outside %dx%d image", o.X, o.Y, ref.Width(), ref.Height())
		}
		label := &vips.LabelParams{
			Text:      watermarkLabel,
			Font:      "sans 12",
			Opacity:   0.9,
			Color:     vips.Color{R: 255, G: 255, B: 255},
			Alignment: vips.AlignLow,
		}
		label.Width.SetInt(max(1, ref.Width()-int(o.X)))
		label.Height.SetInt(max(1, ref.Height()-int(o.Y)))
		label.OffsetX.SetInt(int(o.X))
		label.OffsetY.SetInt(int(o.Y))
		if err := ref.Label(label); err != nil {
			return nil, fmt.Errorf("apply watermark: %w", err)
		}

	case imagespec.ColorFilter:
		shift, ok := filterShifts[o.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown color filter %q", o.Kind)
		}
		if err := ref.Linear([]float64{1, 1, 1}, []float64{0, float64(shift.g), float64(shift.b)}); err != nil {
			return nil, fmt.Errorf("apply color filter: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported operation %T", op)
	}

	return ref, nil
}

func (govipsTransformer) Encode(img Image) ([]byte, error) {
	ref, ok := img.(*vips.ImageRef)
	if !ok {
		return nil, errors.New("govips transformer received a foreign image handle")
	}

	data, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return data, nil
}

func vipsKernel(filter imagespec.ResampleFilter) vips.Kernel {
	switch filter {
	case imagespec.ResampleNearest:
		return vips.KernelNearest
	case imagespec.ResampleTriangle:
		return vips.KernelLinear
	case imagespec.ResampleCatmullRom:
		return vips.KernelCubic
	case imagespec.ResampleGaussian:
		return vips.KernelMitchell
	default:
		return vips.KernelLanczos3
	}
}
