package catalog

import (
	"errors"
	"fmt"
)

// Kind classifies a catalog failure.
type Kind int

const (
	// KindUnknown is used for errors that did not pass through this package.
	KindUnknown Kind = iota
	// KindMissingCredential means no API credential is configured.
	KindMissingCredential
	// KindAuthRejected means the upstream refused the credential.
	KindAuthRejected
	// KindUpstream means the upstream reported a logical or HTTP error.
	KindUpstream
	// KindTransport means the request never produced a usable response.
	KindTransport
	// KindDetailUnavailable means the primary record of a detail view could not be fetched.
	KindDetailUnavailable
	// KindQueryFailed means a search or discovery query could not be fetched.
	KindQueryFailed
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "MissingCredential"
	case KindAuthRejected:
		return "AuthRejected"
	case KindUpstream:
		return "UpstreamError"
	case KindTransport:
		return "TransportFailure"
	case KindDetailUnavailable:
		return "DetailUnavailable"
	case KindQueryFailed:
		return "QueryFailed"
	default:
		return "Unknown"
	}
}

// Fatal reports whether retrying cannot help without a configuration change.
func (k Kind) Fatal() bool {
	return k == KindMissingCredential || k == KindAuthRejected
}

// Sentinels usable with errors.Is.
var (
	ErrMissingCredential = &Error{Kind: KindMissingCredential}
	ErrAuthRejected      = &Error{Kind: KindAuthRejected}
	ErrUpstream          = &Error{Kind: KindUpstream}
	ErrTransport         = &Error{Kind: KindTransport}
	ErrDetailUnavailable = &Error{Kind: KindDetailUnavailable}
	ErrQueryFailed       = &Error{Kind: KindQueryFailed}
)

// Error is the single error type surfaced to callers of this module.
type Error struct {
	Kind Kind
	// Op names the operation, e.g. "search/movie" or "detail".
	Op string
	// Message is the diagnostic text, upstream messages are kept verbatim.
	Message string
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	// Code is the upstream status_code, 0 when absent.
	Code int
	Err  error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so the sentinels above work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Reason returns the innermost catalog error kind, which for QueryFailed and
// DetailUnavailable is the ApiError that caused them.
func (e *Error) Reason() Kind {
	return e.root().Kind
}

func (e *Error) root() *Error {
	var inner *Error
	if e.Err != nil && errors.As(e.Err, &inner) {
		return inner.root()
	}
	return e
}

// Remediation returns actionable text for configuration failures, empty otherwise.
func (e *Error) Remediation() string {
	switch e.Reason() {
	case KindMissingCredential:
		return "No TMDB API key configured. Set tmdb.api_key in the config file or export TMDB_API_KEY. Get one from https://www.themoviedb.org/settings/api"
	case KindAuthRejected:
		return "TMDB rejected the API key. Verify tmdb.api_key is correct and has not been revoked."
	default:
		return ""
	}
}

// KindOf returns the Kind of the outermost catalog error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// AsError converts err into a *Error, wrapping foreign errors as KindUnknown.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindUnknown, Err: err}
}

// IsTransient reports whether err is worth retrying by a caller.
func IsTransient(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	root := e.root()
	switch root.Kind {
	case KindTransport:
		return true
	case KindUpstream:
		return root.StatusCode == 429 || root.StatusCode >= 500
	default:
		return false
	}
}
