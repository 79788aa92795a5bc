package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/reelscout/catalog"
)

const (
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second
)

// Client is a single-endpoint caller for the TMDB API. It appends the
// credential and language to every request and normalizes every failure
// into a *catalog.Error. It never retries.
type Client struct {
	baseURL    string
	apiKey     string
	language   catalog.Language
	userAgent  string
	httpClient *http.Client
	images     ImageResolver
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client. An empty apiKey is accepted here and
// reported as MissingCredential on the first call, without touching the network.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) *Client {
	o := clientOptions{
		baseURL:      DefaultBaseURL,
		imageBaseURL: DefaultImageBaseURL,
		language:     catalog.DefaultLanguage,
		timeout:      DefaultTimeout,
		userAgent:    "reelscout",
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(o.baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		language:   o.language,
		userAgent:  o.userAgent,
		httpClient: httpClient,
		images:     NewImageResolver(o.imageBaseURL),
		logger:     logger,
	}
}

// Images returns the resolver used by the mapper.
func (c *Client) Images() ImageResolver {
	return c.images
}

// Call performs a GET on path and returns the raw JSON body.
// The language parameter falls back to the client default when params has none.
func (c *Client) Call(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	op := strings.TrimPrefix(path, "/")
	if c.apiKey == "" {
		return nil, &catalog.Error{
			Kind:    catalog.KindMissingCredential,
			Op:      op,
			Message: "TMDB API key is not configured",
		}
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	if query.Get("language") == "" {
		query.Set("language", string(c.language))
	}
	query.Set("api_key", c.apiKey)

	requestURL := fmt.Sprintf("%s/%s?%s", c.baseURL, op, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &catalog.Error{Kind: catalog.KindTransport, Op: op, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().
		Str("path", op).
		Str("language", query.Get("language")).
		Msg("Making TMDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &catalog.Error{Kind: catalog.KindTransport, Op: op, Message: "request failed", Err: redact(err, c.apiKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &catalog.Error{Kind: catalog.KindTransport, Op: op, Message: "failed to read response body", StatusCode: resp.StatusCode, Err: err}
	}

	if apiErr := classify(op, resp.StatusCode, body); apiErr != nil {
		c.logger.Debug().
			Str("path", op).
			Int("status", resp.StatusCode).
			Int("code", apiErr.Code).
			Str("kind", apiErr.Kind.String()).
			Msg("TMDB API request failed")
		return nil, apiErr
	}

	if !json.Valid(body) {
		return nil, &catalog.Error{Kind: catalog.KindUpstream, Op: op, Message: "failed to parse response", StatusCode: resp.StatusCode}
	}

	return json.RawMessage(body), nil
}

// get calls path and decodes the body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.Call(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &catalog.Error{
			Kind:       catalog.KindUpstream,
			Op:         strings.TrimPrefix(path, "/"),
			Message:    "failed to parse response",
			StatusCode: http.StatusOK,
			Err:        err,
		}
	}
	return nil
}

// redact strips the credential from URL errors so it never reaches logs.
func redact(err error, apiKey string) error {
	var urlErr *url.Error
	if apiKey == "" || !errors.As(err, &urlErr) {
		return err
	}
	clone := *urlErr
	clone.URL = strings.ReplaceAll(clone.URL, apiKey, "REDACTED")
	return &clone
}
