package query

import (
	"slices"
	"strings"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/pagination"
)

// State is the lifecycle state of a coordinator, or the outcome of a single request.
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateFetching
	StateSettled
	// StateStale marks a response that arrived after a newer request was dispatched.
	StateStale
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateDebouncing:
		return "Debouncing"
	case StateFetching:
		return "Fetching"
	case StateSettled:
		return "Settled"
	case StateStale:
		return "Stale"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Busy reports whether a result is still pending.
func (s State) Busy() bool {
	return s == StateDebouncing || s == StateFetching
}

// Mode is the kind of upstream request a query resolves to.
type Mode int

const (
	ModeNone Mode = iota
	ModeSearch
	ModeDiscover
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeDiscover:
		return "discover"
	default:
		return "none"
	}
}

// Query is the tuple a coordinator turns into a request.
type Query struct {
	Term     string           `json:"term"`
	GenreID  *int             `json:"genreId"`
	Language catalog.Language `json:"language"`
	Page     int              `json:"page"`
}

// Mode applies the precedence rule: a non-empty term searches and ignores
// the genre, a genre alone discovers, neither does nothing.
func (q Query) Mode() Mode {
	switch {
	case strings.TrimSpace(q.Term) != "":
		return ModeSearch
	case q.GenreID != nil:
		return ModeDiscover
	default:
		return ModeNone
	}
}

func sameGenre(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Snapshot is a consistent copy of the coordinator's visible state.
type Snapshot struct {
	Query        Query           `json:"query"`
	State        State           `json:"state"`
	Movies       []catalog.Movie `json:"movies"`
	TotalPages   int             `json:"totalPages"`
	TotalResults int             `json:"totalResults"`
	Loading      bool            `json:"loading"`
	Err          *catalog.Error  `json:"-"`
	// Seq is the sequence number of the request that produced Movies, 0 before any.
	Seq uint64 `json:"seq"`
}

// Pages returns the visible page numbers around the current page.
func (s Snapshot) Pages(size int) []int {
	return pagination.Window(s.Query.Page, s.TotalPages, size)
}

// Contains reports whether a movie with id is in the visible result set.
func (s Snapshot) Contains(id int) bool {
	return slices.ContainsFunc(s.Movies, func(m catalog.Movie) bool { return m.ID == id })
}
