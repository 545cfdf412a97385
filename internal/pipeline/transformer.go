package pipeline

import (
	"github.com/dunamismax/pixelproxy/internal/imagespec"
)

// Image is an opaque decoded image handle. Each Transformer produces and
// consumes its own handle type; callers only see dimensions.
type Image interface {
	Width() int
	Height() int
}

// Transformer decodes raw source bytes, applies one operation at a time and
// encodes the result to the fixed PNG output format.
type Transformer interface {
	Decode(data []byte) (Image, error)
	Apply(img Image, op imagespec.Operation) (Image, error)
	Encode(img Image) ([]byte, error)
}

// watermarkLabel is the fixed text stamped by the watermark operation.
const watermarkLabel = "pixelproxy"

// Photon-style green/blue channel offsets behind each stylistic filter.
var filterShifts = map[imagespec.FilterKind]struct{ g, b uint8 }{
	imagespec.FilterOceanic:  {g: 9, b: 173},
	imagespec.FilterIslands:  {g: 24, b: 95},
	imagespec.FilterMarine:   {g: 14, b: 119},
	imagespec.FilterSeagreen: {g: 68, b: 62},
	imagespec.FilterFlagblue: {g: 0, b: 131},
	imagespec.FilterLiquid:   {g: 10, b: 75},
}
