// Package imagespec defines the ordered list of transformations requested for
// one image and its compact URL token encoding.
package imagespec

// ResampleFilter selects the resampling kernel used by a Resize operation.
type ResampleFilter string

const (
	ResampleNearest    ResampleFilter = "nearest"
	ResampleTriangle   ResampleFilter = "triangle"
	ResampleCatmullRom ResampleFilter = "catmullrom"
	ResampleGaussian   ResampleFilter = "gaussian"
	ResampleLanczos    ResampleFilter = "lanczos"
)

// FilterKind names a stylistic color filter applied by a ColorFilter operation.
type FilterKind string

const (
	FilterOceanic  FilterKind = "oceanic"
	FilterIslands  FilterKind = "islands"
	FilterMarine   FilterKind = "marine"
	FilterSeagreen FilterKind = "seagreen"
	FilterFlagblue FilterKind = "flagblue"
	FilterLiquid   FilterKind = "liquid"
)

// Operation is one transformation step. The set of implementations is closed;
// adding a kind means adding a struct here plus a codec tag and a transformer
// dispatch arm.
type Operation interface {
	isOperation()
}

// Resize scales the image to exactly Width x Height pixels.
type Resize struct {
	Width  uint32
	Height uint32
	Filter ResampleFilter
}

// Watermark stamps the fixed watermark label with its top-left corner at (X, Y).
type Watermark struct {
	X uint32
	Y uint32
}

// ColorFilter applies one of the stylistic channel-shift filters.
type ColorFilter struct {
	Kind FilterKind
}

func (Resize) isOperation()      {}
func (Watermark) isOperation()   {}
func (ColorFilter) isOperation() {}

// ImageSpec is the ordered operation list for one request. Order is significant
// and preserved through encode/decode. An empty spec is the identity transform.
type ImageSpec []Operation

var resampleFilters = map[ResampleFilter]struct{}{
	ResampleNearest:    {},
	ResampleTriangle:   {},
	ResampleCatmullRom: {},
	ResampleGaussian:   {},
	ResampleLanczos:    {},
}

var filterKinds = map[FilterKind]struct{}{
	FilterOceanic:  {},
	FilterIslands:  {},
	FilterMarine:   {},
	FilterSeagreen: {},
	FilterFlagblue: {},
	FilterLiquid:   {},
}
