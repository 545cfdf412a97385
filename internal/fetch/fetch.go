// Package fetch retrieves raw source image bytes over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrFetch reports that the source bytes could not be retrieved: a malformed
// URL, a transport failure or a non-success upstream status. Fetch failures are
// surfaced to clients as their error even when the root cause is on the
// upstream server.
var ErrFetch = errors.New("fetch source image")

// Fetcher performs single-shot retrievals. No retries and no redirect handling
// beyond what http.Client does transparently.
type Fetcher struct {
	client *http.Client
}

// New builds a Fetcher. A zero timeout leaves requests unbounded, matching the
// baseline behavior; any deadline policy comes from configuration.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Do fetches the resource at url and returns its body bytes.
func (f *Fetcher) Do(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("%w: building request: %v", ErrFetch, err)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	res, err := f.client.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrFetch, err)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("%w: unexpected status %d", ErrFetch, res.StatusCode)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		err = fmt.Errorf("%w: reading response: %v", ErrFetch, err)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	log.Debug().Str("url", url).Int("bytes", len(data)).Msg("fetched source image")
	return data, nil
}
