package tmdb

import (
	"context"

	"github.com/s0up4200/reelscout/catalog"
)

// API defines the catalog operations backed by TMDB
type API interface {
	// Listings
	Trending(ctx context.Context, lang catalog.Language, page int) (catalog.MoviePage, error)
	Upcoming(ctx context.Context, lang catalog.Language, page int) (catalog.MoviePage, error)
	Search(ctx context.Context, term string, lang catalog.Language, page int) (catalog.MoviePage, error)
	Discover(ctx context.Context, genreID int, lang catalog.Language, page int) (catalog.MoviePage, error)

	// Detail sub-resources
	Movie(ctx context.Context, id int, lang catalog.Language) (catalog.MovieDetail, error)
	Credits(ctx context.Context, id int, lang catalog.Language) (catalog.Credits, error)
	Videos(ctx context.Context, id int, lang catalog.Language) ([]catalog.Video, error)
	Similar(ctx context.Context, id int, lang catalog.Language) ([]catalog.Movie, error)

	// Vocabularies
	Genres(ctx context.Context, lang catalog.Language) ([]catalog.Genre, error)
	Providers(ctx context.Context, region string, lang catalog.Language) ([]catalog.Provider, error)
}

var _ API = (*Client)(nil)
