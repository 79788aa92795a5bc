// Package query turns search and genre intents into upstream requests.
//
// A Coordinator debounces term and genre changes, tags every dispatched
// request with a sequence number and only applies the response of the most
// recent request. Page and language changes are dispatched immediately.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/pagination"
)

// Source is the upstream a Coordinator queries.
type Source interface {
	Search(ctx context.Context, term string, lang catalog.Language, page int) (catalog.MoviePage, error)
	Discover(ctx context.Context, genreID int, lang catalog.Language, page int) (catalog.MoviePage, error)
}

// Coordinator owns the visible result set of one query stream.
type Coordinator struct {
	source   Source
	logger   zerolog.Logger
	debounce time.Duration
	onChange func(Snapshot)
	onResult func(seq uint64, outcome State)

	mu           sync.Mutex
	pager        *pagination.Controller
	query        Query
	state        State
	movies       []catalog.Movie
	totalResults int
	err          *catalog.Error
	appliedSeq   uint64
	seq          uint64 // last dispatched
	current      uint64 // request whose response is awaited, 0 if none
	cancel       context.CancelFunc
	timer        *time.Timer
	generation   uint64
	idle         chan struct{}
	closed       bool
	version      uint64 // bumped for every change handed to emit
	wg           sync.WaitGroup

	emitMu  sync.Mutex
	emitted uint64
}

// change is a snapshot tagged with the order in which it was taken.
type change struct {
	snap    Snapshot
	version uint64
}

// New creates an idle coordinator.
func New(source Source, logger zerolog.Logger, opts ...Option) *Coordinator {
	idle := make(chan struct{})
	close(idle)

	c := &Coordinator{
		source:   source,
		logger:   logger.With().Str("component", "query").Logger(),
		debounce: DefaultDebounce,
		pager:    pagination.New(),
		query:    Query{Language: catalog.DefaultLanguage, Page: 1},
		movies:   []catalog.Movie{},
		idle:     idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTerm changes the search term, resets the page and restarts the quiet period.
func (c *Coordinator) SetTerm(term string) {
	c.update(func(q *Query) bool {
		if q.Term == term {
			return false
		}
		q.Term = term
		return true
	})
}

// SetGenre changes the genre filter. Nil clears it.
func (c *Coordinator) SetGenre(genreID *int) {
	c.update(func(q *Query) bool {
		if sameGenre(q.GenreID, genreID) {
			return false
		}
		q.GenreID = copyGenre(genreID)
		return true
	})
}

// SetQuery changes term and genre together.
func (c *Coordinator) SetQuery(term string, genreID *int) {
	c.update(func(q *Query) bool {
		if q.Term == term && sameGenre(q.GenreID, genreID) {
			return false
		}
		q.Term = term
		q.GenreID = copyGenre(genreID)
		return true
	})
}

func (c *Coordinator) update(mutate func(*Query) bool) {
	c.mu.Lock()
	if c.closed || !mutate(&c.query) {
		c.mu.Unlock()
		return
	}
	c.pager.SetQuery()
	ch := c.scheduleLocked()
	c.mu.Unlock()

	c.emit(ch)
}

// SetLanguage changes the query language. An active query is re-fetched
// immediately on the current page.
func (c *Coordinator) SetLanguage(lang catalog.Language) {
	c.mu.Lock()
	if c.closed || lang == "" || lang == c.query.Language {
		c.mu.Unlock()
		return
	}
	c.query.Language = lang
	if c.query.Mode() == ModeNone || c.state == StateDebouncing {
		c.mu.Unlock()
		return
	}
	ch := c.dispatchLocked()
	c.mu.Unlock()

	c.emit(ch)
}

// GoTo moves to page n, clamped to the known range, and fetches it
// immediately. It returns false when nothing was dispatched.
func (c *Coordinator) GoTo(n int) bool {
	return c.navigate(func(int) int { return n })
}

// Next fetches the following page.
func (c *Coordinator) Next() bool {
	return c.navigate(func(cur int) int { return cur + 1 })
}

// Prev fetches the preceding page.
func (c *Coordinator) Prev() bool {
	return c.navigate(func(cur int) int { return cur - 1 })
}

func (c *Coordinator) navigate(target func(cur int) int) bool {
	c.mu.Lock()
	if c.closed || c.query.Mode() == ModeNone {
		c.mu.Unlock()
		return false
	}
	prev := c.pager.Page()
	page, ok := c.pager.GoTo(target(prev))
	if !ok || page == prev {
		c.mu.Unlock()
		return false
	}
	ch := c.dispatchLocked()
	c.mu.Unlock()

	c.emit(ch)
	return true
}

// Refresh dispatches the current query now, skipping any pending quiet period.
func (c *Coordinator) Refresh() bool {
	c.mu.Lock()
	if c.closed || c.query.Mode() == ModeNone {
		c.mu.Unlock()
		return false
	}
	ch := c.dispatchLocked()
	c.mu.Unlock()

	c.emit(ch)
	return true
}

// Snapshot returns the current visible state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until the coordinator is neither debouncing nor fetching.
func (c *Coordinator) Wait(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return c.Snapshot(), nil
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

// Close cancels the pending quiet period and any in-flight request. Later
// calls on the coordinator are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimerLocked()
	c.supersedeLocked()
	if c.state.Busy() {
		c.setStateLocked(StateIdle)
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// scheduleLocked starts a new quiet period, or clears the results when the
// query no longer resolves to a request.
func (c *Coordinator) scheduleLocked() change {
	c.stopTimerLocked()
	c.supersedeLocked()

	if c.query.Mode() == ModeNone {
		c.movies = []catalog.Movie{}
		c.totalResults = 0
		c.err = nil
		c.appliedSeq = 0
		c.setStateLocked(StateIdle)
		return c.changeLocked()
	}

	gen := c.generation
	c.timer = time.AfterFunc(c.debounce, func() { c.fire(gen) })
	c.setStateLocked(StateDebouncing)
	return c.changeLocked()
}

func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation || c.state != StateDebouncing {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	ch := c.dispatchLocked()
	c.mu.Unlock()

	c.emit(ch)
}

func (c *Coordinator) dispatchLocked() change {
	c.stopTimerLocked()
	c.supersedeLocked()

	c.seq++
	seq := c.seq
	c.current = seq

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	q := c.query
	q.GenreID = copyGenre(q.GenreID)
	q.Page = c.pager.Page()

	c.logger.Debug().
		Uint64("seq", seq).
		Str("mode", q.Mode().String()).
		Str("term", q.Term).
		Int("page", q.Page).
		Str("language", string(q.Language)).
		Msg("Dispatching query")

	c.setStateLocked(StateFetching)
	c.wg.Add(1)
	go c.run(ctx, seq, q)

	return c.changeLocked()
}

func (c *Coordinator) run(ctx context.Context, seq uint64, q Query) {
	defer c.wg.Done()

	page, err := c.fetch(ctx, q)

	c.mu.Lock()
	if seq != c.current {
		c.mu.Unlock()
		c.logger.Debug().Uint64("seq", seq).Msg("Discarding stale query response")
		c.result(seq, StateStale)
		return
	}
	c.current = 0
	c.cancel()
	c.cancel = nil
	c.appliedSeq = seq

	outcome := StateSettled
	if err != nil {
		outcome = StateFailed
		c.err = &catalog.Error{Kind: catalog.KindQueryFailed, Op: q.Mode().String(), Err: err}
		c.movies = []catalog.Movie{}
		c.totalResults = 0
		c.logger.Debug().Err(err).Uint64("seq", seq).Msg("Query failed")
	} else {
		c.err = nil
		c.movies = page.Movies
		if c.movies == nil {
			c.movies = []catalog.Movie{}
		}
		c.totalResults = page.TotalResults
		c.pager.SetTotalPages(page.TotalPages)
	}
	c.setStateLocked(outcome)
	ch := c.changeLocked()
	c.mu.Unlock()

	c.result(seq, outcome)
	c.emit(ch)
}

func (c *Coordinator) fetch(ctx context.Context, q Query) (catalog.MoviePage, error) {
	switch q.Mode() {
	case ModeSearch:
		return c.source.Search(ctx, strings.TrimSpace(q.Term), q.Language, q.Page)
	case ModeDiscover:
		return c.source.Discover(ctx, *q.GenreID, q.Language, q.Page)
	default:
		return catalog.MoviePage{Page: 1, Movies: []catalog.Movie{}}, nil
	}
}

// stopTimerLocked stops the quiet period. Bumping the generation also
// neutralizes a timer callback that already started.
func (c *Coordinator) stopTimerLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// supersedeLocked abandons the in-flight request, its response will be discarded.
func (c *Coordinator) supersedeLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.current = 0
}

func (c *Coordinator) setStateLocked(s State) {
	wasBusy := c.state.Busy()
	c.state = s
	switch {
	case !wasBusy && s.Busy():
		c.idle = make(chan struct{})
	case wasBusy && !s.Busy():
		close(c.idle)
	}
}

func (c *Coordinator) snapshotLocked() Snapshot {
	q := c.query
	q.GenreID = copyGenre(q.GenreID)
	q.Page = c.pager.Page()

	movies := make([]catalog.Movie, 0, len(c.movies))
	for _, m := range c.movies {
		movies = append(movies, m.Clone())
	}

	return Snapshot{
		Query:        q,
		State:        c.state,
		Movies:       movies,
		TotalPages:   c.pager.Limit(),
		TotalResults: c.totalResults,
		Loading:      c.state.Busy(),
		Err:          c.err,
		Seq:          c.appliedSeq,
	}
}

func (c *Coordinator) changeLocked() change {
	c.version++
	return change{snap: c.snapshotLocked(), version: c.version}
}

// emit delivers changes one at a time and drops any change taken before one
// that was already delivered, so listeners never see state go backwards.
func (c *Coordinator) emit(ch change) {
	if c.onChange == nil {
		return
	}
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if ch.version <= c.emitted {
		c.logger.Debug().
			Uint64("seq", ch.snap.Seq).
			Str("state", ch.snap.State.String()).
			Msg("Dropping superseded change notification")
		return
	}
	c.emitted = ch.version
	c.onChange(ch.snap)
}

func (c *Coordinator) result(seq uint64, outcome State) {
	if c.onResult != nil {
		c.onResult(seq, outcome)
	}
}

func copyGenre(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
