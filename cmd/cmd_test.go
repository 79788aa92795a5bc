package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/config"
)

func withTestConfig(t *testing.T, attempts uint) {
	t.Helper()
	prevCfg, prevLogger := cfg, logger
	cfg = &config.Config{Retry: config.RetryConfig{Attempts: attempts, Delay: time.Millisecond}}
	logger = zerolog.Nop()
	t.Cleanup(func() { cfg, logger = prevCfg, prevLogger })
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name     string
		attempts uint
		failures []*catalog.Error
		wantKind catalog.Kind
		wantNil  bool
		calls    int
	}{
		{
			name:     "success first time",
			attempts: 3,
			wantNil:  true,
			calls:    1,
		},
		{
			name:     "transient then success",
			attempts: 3,
			failures: []*catalog.Error{{Kind: catalog.KindTransport, Err: errors.New("timeout")}},
			wantNil:  true,
			calls:    2,
		},
		{
			name:     "fatal is not retried",
			attempts: 3,
			failures: []*catalog.Error{{Kind: catalog.KindAuthRejected, StatusCode: 401, Code: 7}},
			wantKind: catalog.KindAuthRejected,
			calls:    1,
		},
		{
			name:     "single attempt never retries",
			attempts: 1,
			failures: []*catalog.Error{{Kind: catalog.KindUpstream, StatusCode: 503}},
			wantKind: catalog.KindUpstream,
			calls:    1,
		},
		{
			name:     "attempts exhausted",
			attempts: 2,
			failures: []*catalog.Error{
				{Kind: catalog.KindUpstream, StatusCode: 500},
				{Kind: catalog.KindUpstream, StatusCode: 502},
				{Kind: catalog.KindUpstream, StatusCode: 503},
			},
			wantKind: catalog.KindUpstream,
			calls:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withTestConfig(t, tt.attempts)

			calls := 0
			err := withRetry(context.Background(), func() *catalog.Error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			assert.Equal(t, tt.calls, calls)
			if tt.wantNil {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantKind, err.Kind)
		})
	}
}

func TestViewError(t *testing.T) {
	assert.NoError(t, viewError(nil))

	upstream := &catalog.Error{Kind: catalog.KindUpstream, Op: "search/movie", Message: "Invalid page"}
	assert.Equal(t, "UpstreamError: search/movie: Invalid page", viewError(upstream).Error())

	missing := &catalog.Error{Kind: catalog.KindMissingCredential, Message: "no API key configured"}
	err := viewError(missing)
	assert.Contains(t, err.Error(), "TMDB_API_KEY")
	assert.ErrorIs(t, err, catalog.ErrMissingCredential)
}

func TestParseMovieID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"603", 603, false},
		{" 27205 ", 27205, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"matrix", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMovieID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageStrip(t *testing.T) {
	assert.Equal(t, "[1] 2 3 4 5", pageStrip(1, 40))
	assert.Equal(t, "5 6 [7] 8 9", pageStrip(7, 40))
	assert.Equal(t, "1 [2]", pageStrip(2, 2))
	assert.Equal(t, "496 497 498 499 [500]", pageStrip(500, 90000))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Alien", truncate("Alien", 10))
	assert.Equal(t, "El laber...", truncate("El laberinto del fauno", 11))
	assert.Equal(t, "Amélie", truncate("Amélie", 6))
}
