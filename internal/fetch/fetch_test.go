package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	tests := []struct {
		name       string
		inputBytes []byte
		status     int
		wantErr    bool
	}{
		{
			name:       "success",
			inputBytes: []byte("image bytes"),
			status:     http.StatusOK,
			wantErr:    false,
		},
		{
			name:       "not found",
			inputBytes: []byte("missing"),
			status:     http.StatusNotFound,
			wantErr:    true,
		},
		{
			name:       "upstream error",
			inputBytes: []byte("boom"),
			status:     http.StatusInternalServerError,
			wantErr:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, err := w.Write(tc.inputBytes)
				assert.NoError(t, err)
			}))
			defer srv.Close()

			data, err := New(0).Do(t.Context(), srv.URL)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrFetch)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.inputBytes, data)
			}
		})
	}
}

func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := New(time.Second).Do(t.Context(), srv.URL)
	require.ErrorIs(t, err, ErrFetch)
}

func TestDoMalformedURL(t *testing.T) {
	_, err := New(0).Do(t.Context(), "http://exa mple.com/%zz")
	require.ErrorIs(t, err, ErrFetch)
}
