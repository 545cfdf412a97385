package imagespec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		spec ImageSpec
	}{
		{
			name: "empty spec",
			spec: ImageSpec{},
		},
		{
			name: "single resize",
			spec: ImageSpec{Resize{Width: 500, Height: 800, Filter: ResampleCatmullRom}},
		},
		{
			name: "full pipeline",
			spec: ImageSpec{
				Resize{Width: 500, Height: 800, Filter: ResampleCatmullRom},
				Watermark{X: 20, Y: 20},
				ColorFilter{Kind: FilterMarine},
			},
		},
		{
			name: "repeated operations keep order",
			spec: ImageSpec{
				ColorFilter{Kind: FilterOceanic},
				Resize{Width: 1, Height: 1, Filter: ResampleNearest},
				ColorFilter{Kind: FilterLiquid},
				Resize{Width: 4294967295, Height: 4294967295, Filter: ResampleLanczos},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token := Encode(tc.spec)
			decoded, err := Decode(token)
			require.NoError(t, err)
			assert.Equal(t, tc.spec, decoded)
		})
	}
}

func TestEncodeTokenFormat(t *testing.T) {
	spec := ImageSpec{
		Resize{Width: 500, Height: 800, Filter: ResampleCatmullRom},
		Watermark{X: 20, Y: 20},
		ColorFilter{Kind: FilterMarine},
	}

	assert.Equal(t, "r:500:800:catmullrom-w:20:20-f:marine", Encode(spec))
}

func TestDecodeInvalidTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "unknown tag", token: "zz:1:2"},
		{name: "bare separator", token: "-"},
		{name: "resize missing fields", token: "r:500:800"},
		{name: "resize extra field", token: "r:500:800:catmullrom:1"},
		{name: "resize non-numeric width", token: "r:abc:800:catmullrom"},
		{name: "resize negative height", token: "r:500:-1:catmullrom"},
		{name: "resize width overflow", token: "r:4294967296:800:catmullrom"},
		{name: "resize unknown filter", token: "r:500:800:bicubic"},
		{name: "watermark missing field", token: "w:20"},
		{name: "watermark non-numeric", token: "w:20:north"},
		{name: "color filter empty kind", token: "f:"},
		{name: "color filter unknown kind", token: "f:sepia"},
		{name: "valid prefix invalid tail", token: "r:500:800:catmullrom-w:20:20-zz"},
		{name: "field separator only", token: ":::"},
		{name: "adversarial long input", token: strings.Repeat("r:1:1:nearest-", 5000) + "x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := Decode(tc.token)
			require.ErrorIs(t, err, ErrInvalidSpec)
			assert.Nil(t, spec)
		})
	}
}

func TestDecodeEmptyTokenIsIdentity(t *testing.T) {
	spec, err := Decode("")
	require.NoError(t, err)
	assert.Empty(t, spec)
	assert.Equal(t, "", Encode(spec))
}

func TestTokenIsPathSegmentSafe(t *testing.T) {
	spec := ImageSpec{
		Resize{Width: 1260, Height: 750, Filter: ResampleLanczos},
		Watermark{X: 0, Y: 0},
		ColorFilter{Kind: FilterFlagblue},
	}

	token := Encode(spec)
	for _, r := range token {
		ok := r == '-' || r == ':' ||
			(r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		assert.True(t, ok, "unexpected token character %q", r)
	}
}
