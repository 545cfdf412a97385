// Package pipeline orchestrates one image request: decode the spec token,
// resolve the source bytes through the cache, decode the image, apply the
// operations in order and encode the fixed-format response.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dunamismax/pixelproxy/internal/cache"
	"github.com/dunamismax/pixelproxy/internal/imagespec"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OutputContentType is the MIME type of every successful response. The output
// format is fixed and not client-selectable.
const OutputContentType = "image/png"

var (
	// ErrDecode reports that the fetched bytes are not a supported image
	// encoding.
	ErrDecode = errors.New("decode source image")
	// ErrOperation reports that one transformation step failed; the whole
	// request aborts with no partial output.
	ErrOperation = errors.New("apply image operation")
)

// SourceFetcher retrieves raw source bytes for a URL on a cache miss.
type SourceFetcher interface {
	Do(ctx context.Context, url string) ([]byte, error)
}

// Processor ties the spec codec, cache, fetcher and transformer together. The
// cache is the only state shared across requests.
type Processor struct {
	cache       *cache.Cache
	fetcher     SourceFetcher
	transformer Transformer
	tracer      trace.Tracer
}

// NewProcessor builds a Processor around the shared cache. The transformer
// backend is selected at build time.
func NewProcessor(imgCache *cache.Cache, fetcher SourceFetcher) (*Processor, error) {
	transformer, err := newTransformer()
	if err != nil {
		return nil, fmt.Errorf("build transformer: %w", err)
	}

	return &Processor{
		cache:       imgCache,
		fetcher:     fetcher,
		transformer: transformer,
		tracer:      otel.Tracer("pixelproxy/pipeline"),
	}, nil
}

// Rendered is the response payload for a finished request.
type Rendered struct {
	Data        []byte
	ContentType string
}

// Render runs the full pipeline for one request. Every stage is fail-fast; the
// returned error wraps exactly one of imagespec.ErrInvalidSpec, fetch.ErrFetch,
// ErrDecode or ErrOperation so callers can attribute the failure.
func (p *Processor) Render(ctx context.Context, token, rawURL string) (Rendered, error) {
	spec, err := imagespec.Decode(token)
	if err != nil {
		return Rendered{}, err
	}

	// The URL segment arrives percent-decoded. Invalid UTF-8 byte sequences
	// are replaced rather than rejected; no further validation happens before
	// the fetch is attempted.
	url := strings.ToValidUTF8(rawURL, string(utf8.RuneError))

	ctx, span := p.tracer.Start(ctx, "pipeline.render", trace.WithAttributes(
		attribute.Int("spec.operations", len(spec)),
		attribute.String("source.url", url),
	))
	defer span.End()

	data, err := p.cache.GetOrFetch(ctx, cache.Key(url), func(ctx context.Context) ([]byte, error) {
		return p.fetcher.Do(ctx, url)
	})
	if err != nil {
		span.SetStatus(codes.Error, "resolve source")
		return Rendered{}, fmt.Errorf("resolve stage: %w", err)
	}

	img, err := p.transformer.Decode(data)
	if err != nil {
		span.SetStatus(codes.Error, "decode source")
		return Rendered{}, fmt.Errorf("decode stage: %w: %v", ErrDecode, err)
	}
	defer func() {
		if closer, ok := img.(interface{ Close() }); ok {
			closer.Close()
		}
	}()

	for i, op := range spec {
		img, err = p.transformer.Apply(img, op)
		if err != nil {
			span.SetStatus(codes.Error, "transform")
			return Rendered{}, fmt.Errorf("transform stage step=%d: %w: %v", i, ErrOperation, err)
		}
	}

	out, err := p.transformer.Encode(img)
	if err != nil {
		// Encoding the fixed format from a valid in-memory image is expected
		// to always succeed.
		span.SetStatus(codes.Error, "encode")
		return Rendered{}, fmt.Errorf("encode stage: %w", err)
	}

	log.Info().Int("operations", len(spec)).Int("bytes", len(out)).Msg("finished processing image")
	return Rendered{Data: out, ContentType: OutputContentType}, nil
}
