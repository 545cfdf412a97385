// Package api exposes the image proxy over HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/dunamismax/pixelproxy/internal/cache"
	"github.com/dunamismax/pixelproxy/internal/fetch"
	"github.com/dunamismax/pixelproxy/internal/imagespec"
	"github.com/dunamismax/pixelproxy/internal/pipeline"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Server struct {
	processor *pipeline.Processor
	metrics   *metrics
	tracer    trace.Tracer
	mux       *http.ServeMux
}

// NewServer wires the request pipeline into the HTTP surface. The cache is
// taken only to export its counters on /metrics; it may be nil in tests.
func NewServer(processor *pipeline.Processor, imgCache *cache.Cache) *Server {
	s := &Server{
		processor: processor,
		metrics:   newMetrics(imgCache),
		tracer:    otel.Tracer("pixelproxy/api"),
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.metrics.withHTTPMetrics(s.withTracing(s.withRequestLog(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", s.metrics.metricsHandler())
	s.mux.HandleFunc("GET /image/{spec}/{url}", s.handleImage)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleImage serves GET /image/{spec}/{url}. Both wildcards arrive
// percent-decoded; the pipeline owns all further interpretation. Clients see
// only a status code, never error detail.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	rendered, err := s.processor.Render(r.Context(), r.PathValue("spec"), r.PathValue("url"))
	if err != nil {
		status := statusForError(err)
		log.Warn().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("image request failed")
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", rendered.ContentType)
	if _, err := w.Write(rendered.Data); err != nil {
		log.Warn().Err(err).Msg("writing image response")
	}
}

// statusForError maps the pipeline error taxonomy onto status codes. A failed
// upstream fetch counts as a client error even when the root cause is on the
// upstream server; undecodable or untransformable images count as ours.
func statusForError(err error) int {
	switch {
	case errors.Is(err, imagespec.ErrInvalidSpec), errors.Is(err, fetch.ErrFetch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
