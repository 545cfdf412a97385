package imagespec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSpec reports a token that cannot be decoded into an ImageSpec.
var ErrInvalidSpec = errors.New("invalid image spec")

// Wire format: operations joined by opSep, fields within an operation joined by
// fieldSep. Both characters are legal in an HTTP path segment without escaping.
// Each operation starts with its type tag; tags are additive, so new operation
// kinds never change the meaning of existing tokens.
const (
	opSep    = "-"
	fieldSep = ":"

	tagResize      = "r"
	tagWatermark   = "w"
	tagColorFilter = "f"
)

// Encode serializes a spec to its URL token. The empty spec encodes to "".
func Encode(spec ImageSpec) string {
	parts := make([]string, 0, len(spec))
	for _, op := range spec {
		switch o := op.(type) {
		case Resize:
			parts = append(parts, strings.Join([]string{
				tagResize,
				strconv.FormatUint(uint64(o.Width), 10),
				strconv.FormatUint(uint64(o.Height), 10),
				string(o.Filter),
			}, fieldSep))
		case Watermark:
			parts = append(parts, strings.Join([]string{
				tagWatermark,
				strconv.FormatUint(uint64(o.X), 10),
				strconv.FormatUint(uint64(o.Y), 10),
			}, fieldSep))
		case ColorFilter:
			parts = append(parts, strings.Join([]string{tagColorFilter, string(o.Kind)}, fieldSep))
		}
	}
	return strings.Join(parts, opSep)
}

// Decode parses a token back into an ImageSpec. Decoding is strict: an unknown
// tag, a wrong field count, a non-numeric numeric field or an unknown
// enumeration name fails with ErrInvalidSpec. It never returns a partial spec.
func Decode(token string) (ImageSpec, error) {
	if token == "" {
		return ImageSpec{}, nil
	}

	parts := strings.Split(token, opSep)
	spec := make(ImageSpec, 0, len(parts))
	for _, part := range parts {
		op, err := decodeOperation(part)
		if err != nil {
			return nil, err
		}
		spec = append(spec, op)
	}
	return spec, nil
}

func decodeOperation(part string) (Operation, error) {
	fields := strings.Split(part, fieldSep)
	switch fields[0] {
	case tagResize:
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: resize wants 3 fields, got %d", ErrInvalidSpec, len(fields)-1)
		}
		width, err := decodeUint32(fields[1])
		if err != nil {
			return nil, err
		}
		height, err := decodeUint32(fields[2])
		if err != nil {
			return nil, err
		}
		filter := ResampleFilter(fields[3])
		if _, ok := resampleFilters[filter]; !ok {
			return nil, fmt.Errorf("%w: unknown resample filter %q", ErrInvalidSpec, fields[3])
		}
		return Resize{Width: width, Height: height, Filter: filter}, nil

	case tagWatermark:
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: watermark wants 2 fields, got %d", ErrInvalidSpec, len(fields)-1)
		}
		x, err := decodeUint32(fields[1])
		if err != nil {
			return nil, err
		}
		y, err := decodeUint32(fields[2])
		if err != nil {
			return nil, err
		}
		return Watermark{X: x, Y: y}, nil

	case tagColorFilter:
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: color filter wants 1 field, got %d", ErrInvalidSpec, len(fields)-1)
		}
		kind := FilterKind(fields[1])
		if _, ok := filterKinds[kind]; !ok {
			return nil, fmt.Errorf("%w: unknown color filter %q", ErrInvalidSpec, fields[1])
		}
		return ColorFilter{Kind: kind}, nil

	default:
		return nil, fmt.Errorf("%w: unknown operation tag %q", ErrInvalidSpec, fields[0])
	}
}

func decodeUint32(field string) (uint32, error) {
	v, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an unsigned integer", ErrInvalidSpec, field)
	}
	return uint32(v), nil
}
