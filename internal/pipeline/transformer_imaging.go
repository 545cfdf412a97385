package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/disintegration/imaging"
	"github.com/dunamismax/pixelproxy/internal/imagespec"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

// imagingTransformer is the pure-Go backend, built on disintegration/imaging
// and the stdlib codecs.
type imagingTransformer struct{}

type rasterImage struct {
	img image.Image
}

func (r rasterImage) Width() int  { return r.img.Bounds().Dx() }
func (r rasterImage) Height() int { return r.img.Bounds().Dy() }

func (imagingTransformer) Decode(data []byte) (Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}
	return rasterImage{img: img}, nil
}

func (imagingTransformer) Apply(img Image, op imagespec.Operation) (Image, error) {
	src, ok := img.(rasterImage)
	if !ok {
		return nil, errors.New("imaging transformer received a foreign image handle")
	}

	switch o := op.(type) {
	case imagespec.Resize:
		if o.Width == 0 || o.Height == 0 {
			return nil, fmt.Errorf("resize requires non-zero target dimensions, got %dx%d", o.Width, o.Height)
		}
		return rasterImage{img: imaging.Resize(src.img, int(o.Width), int(o.Height), resampleKernel(o.Filter))}, nil

	case imagespec.Watermark:
		out, err := watermarkAt(src.img, int(o.X), int(o.Y))
		if err != nil {
			return nil, err
		}
		return rasterImage{img: out}, nil

	case imagespec.ColorFilter:
		shift, ok := filterShifts[o.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown color filter %q", o.Kind)
		}
		out := imaging.AdjustFunc(src.img, func(c color.NRGBA) color.NRGBA {
			c.G = addClamp(c.G, shift.g)
			c.B = addClamp(c.B, shift.b)
			return c
		})
		return rasterImage{img: out}, nil

	default:
		return nil, fmt.Errorf("unsupported operation %T", op)
	}
}

func (imagingTransformer) Encode(img Image) ([]byte, error) {
	src, ok := img.(rasterImage)
	if !ok {
		return nil, errors.New("imaging transformer received a foreign image handle")
	}

	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := encoder.Encode(&buf, src.img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func resampleKernel(filter imagespec.ResampleFilter) imaging.ResampleFilter {
	switch filter {
	case imagespec.ResampleNearest:
		return imaging.NearestNeighbor
	case imagespec.ResampleTriangle:
		return imaging.Linear
	case imagespec.ResampleCatmullRom:
		return imaging.CatmullRom
	case imagespec.ResampleGaussian:
		return imaging.Gaussian
	default:
		return imaging.Lanczos
	}
}

func watermarkAt(src image.Image, x, y int) (image.Image, error) {
	bounds := src.Bounds()
	if x >= bounds.Dx() || y >= bounds.Dy() {
		return nil, fmt.Errorf("watermark position (%d,%d) outside %dx%d image", x, y, bounds.Dx(), bounds.Dy())
	}

	dst := imaging.Clone(src)

	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()

	drawer := &font.Drawer{
		Dst:  dst,
		Face: face,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 230}),
		Dot:  fixed.P(x, y+ascent),
	}
	drawer.DrawString(watermarkLabel)

	return dst, nil
}

func addClamp(v, delta uint8) uint8 {
	sum := uint16(v) + uint16(delta)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}
