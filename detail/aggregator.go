// Package detail assembles a full movie detail from its sub-resources.
package detail

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/reelscout/catalog"
)

// Caps applied to the secondary sequences of a detail.
const (
	MaxCast    = 10
	MaxCrew    = 5
	MaxVideos  = 3
	MaxSimilar = 6
)

// DefaultConcurrency bounds GetMany.
const DefaultConcurrency = 4

// Source provides the four sub-resources of a movie.
type Source interface {
	Movie(ctx context.Context, id int, lang catalog.Language) (catalog.MovieDetail, error)
	Credits(ctx context.Context, id int, lang catalog.Language) (catalog.Credits, error)
	Videos(ctx context.Context, id int, lang catalog.Language) ([]catalog.Video, error)
	Similar(ctx context.Context, id int, lang catalog.Language) ([]catalog.Movie, error)
}

// Aggregator fans out to the sub-resources of a movie and fans the results
// back into one MovieDetail.
type Aggregator struct {
	source      Source
	logger      zerolog.Logger
	concurrency int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency bounds how many details GetMany assembles at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// New creates an Aggregator.
func New(source Source, logger zerolog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:      source,
		logger:      logger.With().Str("component", "detail").Logger(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Get issues the primary, credits, videos and similar calls concurrently.
// Only a failure of the primary call fails the aggregate, with
// KindDetailUnavailable. A failed secondary call leaves its field empty.
func (a *Aggregator) Get(ctx context.Context, id int, lang catalog.Language) (*catalog.MovieDetail, error) {
	var (
		primary catalog.MovieDetail
		credits = catalog.Credits{Cast: []catalog.CastMember{}, Crew: []catalog.CrewMember{}}
		videos  = []catalog.Video{}
		similar = []catalog.Movie{}
	)

	// The group context is cancelled when the primary call fails, which
	// abandons the secondary calls early.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d, err := a.source.Movie(gctx, id, lang)
		if err != nil {
			return err
		}
		primary = d
		return nil
	})

	g.Go(func() error {
		c, err := a.source.Credits(gctx, id, lang)
		if err != nil {
			a.degraded(err, id, "credits")
			return nil
		}
		credits = catalog.Credits{Cast: topCast(c.Cast), Crew: keyCrew(c.Crew)}
		return nil
	})

	g.Go(func() error {
		v, err := a.source.Videos(gctx, id, lang)
		if err != nil {
			a.degraded(err, id, "videos")
			return nil
		}
		videos = trailers(v)
		return nil
	})

	g.Go(func() error {
		s, err := a.source.Similar(gctx, id, lang)
		if err != nil {
			a.degraded(err, id, "similar")
			return nil
		}
		similar = firstMovies(s, MaxSimilar)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, &catalog.Error{Kind: catalog.KindDetailUnavailable, Op: "detail", Err: err}
	}

	detail := primary
	if detail.Genres == nil {
		detail.Genres = []catalog.Genre{}
	}
	if detail.ProductionCompanies == nil {
		detail.ProductionCompanies = []catalog.Company{}
	}
	detail.Credits = credits
	detail.Videos = videos
	detail.Similar = similar
	return &detail, nil
}

// Result is the outcome of one id in GetMany.
type Result struct {
	ID     int
	Detail *catalog.MovieDetail
	Err    error
}

// GetMany assembles several details with bounded concurrency. Results keep
// the order of ids; a failed id does not stop the others.
func (a *Aggregator) GetMany(ctx context.Context, ids []int, lang catalog.Language) []Result {
	results := make([]Result, len(ids))
	if len(ids) == 0 {
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			d, err := a.Get(ctx, id, lang)
			results[i] = Result{ID: id, Detail: d, Err: err}
			return nil
		})
	}

	g.Wait()
	return results
}

func (a *Aggregator) degraded(err error, id int, part string) {
	a.logger.Warn().
		Err(err).
		Int("movie_id", id).
		Str("part", part).
		Msg("Secondary detail call failed, continuing without it")
}

func topCast(cast []catalog.CastMember) []catalog.CastMember {
	out := make([]catalog.CastMember, 0, min(len(cast), MaxCast))
	for _, c := range cast {
		if len(out) == MaxCast {
			break
		}
		out = append(out, c)
	}
	return out
}

// keyCrew keeps directors and producers, in upstream order.
func keyCrew(crew []catalog.CrewMember) []catalog.CrewMember {
	out := make([]catalog.CrewMember, 0, MaxCrew)
	for _, c := range crew {
		if len(out) == MaxCrew {
			break
		}
		if c.Job == "Director" || c.Job == "Producer" {
			out = append(out, c)
		}
	}
	return out
}

// trailers keeps YouTube trailers, in upstream order.
func trailers(videos []catalog.Video) []catalog.Video {
	out := make([]catalog.Video, 0, MaxVideos)
	for _, v := range videos {
		if len(out) == MaxVideos {
			break
		}
		if v.Site == "YouTube" && v.Type == "Trailer" {
			out = append(out, v)
		}
	}
	return out
}

func firstMovies(movies []catalog.Movie, n int) []catalog.Movie {
	out := make([]catalog.Movie, 0, min(len(movies), n))
	return append(out, movies[:min(len(movies), n)]...)
}
