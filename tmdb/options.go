package tmdb

import (
	"net/http"
	"time"

	"github.com/s0up4200/reelscout/catalog"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL      string
	imageBaseURL string
	language     catalog.Language
	timeout      time.Duration
	userAgent    string
	httpClient   *http.Client
}

// WithBaseURL overrides the API root, mostly useful for tests.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithImageBaseURL overrides the image CDN root.
func WithImageBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.imageBaseURL = baseURL
		}
	}
}

// WithLanguage sets the language used when a call does not specify one.
func WithLanguage(lang catalog.Language) Option {
	return func(o *clientOptions) {
		if lang != "" {
			o.language = lang
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient replaces the HTTP client. WithTimeout is ignored when set.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}
