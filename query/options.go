package query

import (
	"time"

	"github.com/s0up4200/reelscout/catalog"
)

// DefaultDebounce is the quiet period before a term or genre change fires.
const DefaultDebounce = 500 * time.Millisecond

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDebounce overrides the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithLanguage sets the initial query language.
func WithLanguage(lang catalog.Language) Option {
	return func(c *Coordinator) {
		if lang != "" {
			c.query.Language = lang
		}
	}
}

// WithOnChange registers a callback invoked with a snapshot after every
// visible state change. Calls never overlap and arrive in the order the
// changes happened; a change overtaken by a newer one is not delivered. It
// runs outside the coordinator lock, possibly on a timer or request
// goroutine, and must not change the coordinator's query.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Coordinator) {
		c.onChange = fn
	}
}

// WithOnResult registers a callback invoked once per dispatched request
// with its final outcome: StateSettled, StateFailed or StateStale.
func WithOnResult(fn func(seq uint64, outcome State)) Option {
	return func(c *Coordinator) {
		c.onResult = fn
	}
}
