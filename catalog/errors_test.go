package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindMissingCredential, "MissingCredential"},
		{KindAuthRejected, "AuthRejected"},
		{KindUpstream, "UpstreamError"},
		{KindTransport, "TransportFailure"},
		{KindDetailUnavailable, "DetailUnavailable"},
		{KindQueryFailed, "QueryFailed"},
		{KindUnknown, "Unknown"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestErrorIs(t *testing.T) {
	upstream := &Error{Kind: KindUpstream, Op: "search/movie", Message: "Invalid page", StatusCode: 422}
	wrapped := &Error{Kind: KindQueryFailed, Op: "search", Err: upstream}

	assert.True(t, errors.Is(wrapped, ErrQueryFailed))
	assert.True(t, errors.Is(wrapped, ErrUpstream))
	assert.False(t, errors.Is(wrapped, ErrTransport))
	assert.Equal(t, KindQueryFailed, KindOf(wrapped))
	assert.Equal(t, KindUpstream, wrapped.Reason())
	assert.Equal(t, "QueryFailed: search: UpstreamError: search/movie: Invalid page", wrapped.Error())
}

func TestRemediation(t *testing.T) {
	missing := &Error{Kind: KindQueryFailed, Err: &Error{Kind: KindMissingCredential}}
	assert.Contains(t, missing.Remediation(), "tmdb.api_key")

	rejected := &Error{Kind: KindAuthRejected, Code: 7}
	assert.Contains(t, rejected.Remediation(), "rejected")

	transport := &Error{Kind: KindTransport}
	assert.Empty(t, transport.Remediation())
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"transport", &Error{Kind: KindTransport}, true},
		{"server error", &Error{Kind: KindUpstream, StatusCode: 503}, true},
		{"rate limited", &Error{Kind: KindUpstream, StatusCode: 429}, true},
		{"not found", &Error{Kind: KindUpstream, StatusCode: 404}, false},
		{"auth", &Error{Kind: KindAuthRejected, StatusCode: 401}, false},
		{"wrapped transport", &Error{Kind: KindQueryFailed, Err: &Error{Kind: KindTransport}}, true},
		{"foreign", fmt.Errorf("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))

	foreign := AsError(fmt.Errorf("boom"))
	assert.Equal(t, KindUnknown, foreign.Kind)

	orig := &Error{Kind: KindTransport}
	assert.Same(t, orig, AsError(fmt.Errorf("wrap: %w", orig)))
}
