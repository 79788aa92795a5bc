package service

import (
	"context"
	"slices"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/sourcegraph/conc/iter"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/pagination"
	"github.com/s0up4200/reelscout/query"
)

const (
	// UpcomingLimit caps the upcoming listing.
	UpcomingLimit = 12
	// ProvidersLimit caps the providers listing.
	ProvidersLimit = 15
	// SectionSize caps the movies of each genre section.
	SectionSize = 12
	// FallbackSections is the number of genres used when none of the
	// preferred genres exist in the vocabulary.
	FallbackSections = 5
)

// preferredGenres are the home screen genres, as ASCII lower case names in
// every supported language.
var preferredGenres = map[string]bool{
	"action": true, "accion": true,
	"comedy": true, "comedia": true,
	"drama":  true,
	"horror": true, "terror": true,
	"animation": true, "animacion": true,
}

// TrendingMovies returns a page of this week's trending movies.
func (s *Service) TrendingMovies(ctx context.Context, page int) MoviesView {
	res, err := s.api.Trending(ctx, s.Language(), pagination.Clamp(page, pagination.MaxPages))
	if err != nil {
		return MoviesView{Movies: []catalog.Movie{}, Err: catalog.AsError(err)}
	}
	return pageView(res)
}

// UpcomingMovies returns the first upcoming releases.
func (s *Service) UpcomingMovies(ctx context.Context) MoviesView {
	res, err := s.api.Upcoming(ctx, s.Language(), 1)
	if err != nil {
		return MoviesView{Movies: []catalog.Movie{}, Err: catalog.AsError(err)}
	}
	view := pageView(res)
	view.Movies = firstN(view.Movies, UpcomingLimit)
	return view
}

// Search returns the coordinator behind the search listing.
func (s *Service) Search() *query.Coordinator {
	return s.search
}

// SearchView returns the visible state of the search coordinator.
func (s *Service) SearchView() MoviesView {
	return moviesView(s.search.Snapshot())
}

// MovieDetail aggregates the detail of id in the current language.
func (s *Service) MovieDetail(ctx context.Context, id int) DetailView {
	d, err := s.details.Get(ctx, id, s.Language())
	if err != nil {
		return DetailView{Err: catalog.AsError(err)}
	}
	return DetailView{Movie: d}
}

// MovieDetails aggregates several movies concurrently, one view per id in
// the order given.
func (s *Service) MovieDetails(ctx context.Context, ids []int) []DetailView {
	results := s.details.GetMany(ctx, ids, s.Language())
	views := make([]DetailView, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			views = append(views, DetailView{Err: catalog.AsError(r.Err)})
			continue
		}
		views = append(views, DetailView{Movie: r.Detail})
	}
	return views
}

// Favorites returns the favorites in insertion order.
func (s *Service) Favorites() FavoritesView {
	return FavoritesView{Favorites: s.favorites.List(), store: s.favorites}
}

// Genres returns the genre vocabulary of the current language. It is
// fetched once per language; concurrent callers share the request.
func (s *Service) Genres(ctx context.Context) GenresView {
	genres, err := s.loadGenres(ctx, s.Language())
	if err != nil {
		return GenresView{Genres: []catalog.Genre{}, Err: catalog.AsError(err)}
	}
	return GenresView{Genres: genres}
}

// Providers returns the top streaming providers of the configured region.
func (s *Service) Providers(ctx context.Context) ProvidersView {
	providers, err := s.api.Providers(ctx, s.cfg.TMDB.WatchRegion, s.Language())
	if err != nil {
		return ProvidersView{Providers: []catalog.Provider{}, Err: catalog.AsError(err)}
	}
	return ProvidersView{Providers: firstN(providers, ProvidersLimit)}
}

// GenreSections returns a few popular movies for each home screen genre.
// Any failed request fails the whole view.
func (s *Service) GenreSections(ctx context.Context) SectionsView {
	lang := s.Language()
	genres, err := s.loadGenres(ctx, lang)
	if err != nil {
		return SectionsView{Sections: []catalog.GenreSection{}, Err: catalog.AsError(err)}
	}

	selected := sectionGenres(genres)
	mapper := iter.Mapper[catalog.Genre, catalog.GenreSection]{MaxGoroutines: len(selected)}
	sections, err := mapper.MapErr(selected, func(g *catalog.Genre) (catalog.GenreSection, error) {
		res, err := s.api.Discover(ctx, g.ID, lang, 1)
		if err != nil {
			return catalog.GenreSection{}, err
		}
		return catalog.GenreSection{Genre: *g, Movies: firstN(res.Movies, SectionSize)}, nil
	})
	if err != nil {
		return SectionsView{Sections: []catalog.GenreSection{}, Err: catalog.AsError(err)}
	}
	if sections == nil {
		sections = []catalog.GenreSection{}
	}
	return SectionsView{Sections: sections}
}

func (s *Service) loadGenres(ctx context.Context, lang catalog.Language) ([]catalog.Genre, error) {
	s.genreMu.Lock()
	cached, ok := s.genres[lang]
	s.genreMu.Unlock()
	if ok {
		return slices.Clone(cached), nil
	}

	v, err, _ := s.genreGroup.Do(string(lang), func() (any, error) {
		s.genreMu.Lock()
		cached, ok := s.genres[lang]
		s.genreMu.Unlock()
		if ok {
			return cached, nil
		}

		genres, err := s.api.Genres(ctx, lang)
		if err != nil {
			return nil, err
		}
		s.genreMu.Lock()
		s.genres[lang] = genres
		s.genreMu.Unlock()
		s.logger.Debug().Str("language", string(lang)).Int("count", len(genres)).Msg("Cached genres")
		return genres, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]catalog.Genre)), nil
}

// sectionGenres keeps the preferred genres in vocabulary order, or the
// first few genres when the vocabulary names none of them.
func sectionGenres(genres []catalog.Genre) []catalog.Genre {
	selected := make([]catalog.Genre, 0, len(preferredGenres))
	for _, g := range genres {
		if preferredGenres[normalizeName(g.Name)] {
			selected = append(selected, g)
		}
	}
	if len(selected) > 0 {
		return selected
	}
	return firstN(genres, FallbackSections)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(name)))
}

func pageView(res catalog.MoviePage) MoviesView {
	movies := res.Movies
	if movies == nil {
		movies = []catalog.Movie{}
	}
	return MoviesView{
		Movies:       movies,
		Page:         res.Page,
		TotalPages:   min(res.TotalPages, pagination.MaxPages),
		TotalResults: res.TotalResults,
	}
}

func firstN[T any](items []T, n int) []T {
	out := make([]T, 0, min(len(items), n))
	return append(out, items[:min(len(items), n)]...)
}
