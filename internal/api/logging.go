package api

import (
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := ""
		if id, err := uuid.NewV4(); err == nil {
			requestID = id.String()
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("route", routeLabel(r.URL.Path)).
			Int("status", recorder.status).
			Dur("elapsed", time.Since(start)).
			Msg("request completed")
	})
}
