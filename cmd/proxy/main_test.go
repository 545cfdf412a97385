package main

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, logLevel(tc.in), "level %q", tc.in)
	}
}

func TestExampleURLHandlesBindAddresses(t *testing.T) {
	cases := []struct {
		addr string
		want string
	}{
		{":3000", "http://localhost:3000/image/"},
		{"0.0.0.0:3000", "http://localhost:3000/image/"},
		{"127.0.0.1:8080", "http://127.0.0.1:8080/image/"},
	}

	for _, tc := range cases {
		got := exampleURL(tc.addr)
		assert.True(t, strings.HasPrefix(got, tc.want), "addr %q gave %q", tc.addr, got)
	}
}
