package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/s0up4200/reelscout/catalog"
)

// DefaultWatchRegion is the region used for streaming providers.
const DefaultWatchRegion = "ES"

func (c *Client) mapper() mapper {
	return mapper{images: c.images}
}

func langParams(lang catalog.Language) url.Values {
	params := url.Values{}
	if lang != "" {
		params.Set("language", string(lang))
	}
	return params
}

func pageParams(lang catalog.Language, page int) url.Values {
	params := langParams(lang)
	params.Set("page", strconv.Itoa(max(page, 1)))
	return params
}

func (c *Client) moviePage(ctx context.Context, path string, params url.Values) (catalog.MoviePage, error) {
	var raw rawMoviePage
	if err := c.get(ctx, path, params, &raw); err != nil {
		return catalog.MoviePage{}, err
	}
	return c.mapper().page(raw), nil
}

// Trending returns this week's trending movies.
func (c *Client) Trending(ctx context.Context, lang catalog.Language, page int) (catalog.MoviePage, error) {
	return c.moviePage(ctx, "/trending/movie/week", pageParams(lang, page))
}

// Search runs a free-text movie search. A blank term yields an empty page
// without a network call.
func (c *Client) Search(ctx context.Context, term string, lang catalog.Language, page int) (catalog.MoviePage, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return catalog.MoviePage{Page: 1, Movies: []catalog.Movie{}}, nil
	}
	params := pageParams(lang, page)
	params.Set("query", term)
	return c.moviePage(ctx, "/search/movie", params)
}

// Discover lists movies of a genre by popularity.
func (c *Client) Discover(ctx context.Context, genreID int, lang catalog.Language, page int) (catalog.MoviePage, error) {
	params := pageParams(lang, page)
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("sort_by", "popularity.desc")
	return c.moviePage(ctx, "/discover/movie", params)
}

// Upcoming lists movies about to be released.
func (c *Client) Upcoming(ctx context.Context, lang catalog.Language, page int) (catalog.MoviePage, error) {
	return c.moviePage(ctx, "/movie/upcoming", pageParams(lang, page))
}

// Movie fetches the primary record of a movie. Credits, videos and similar
// titles are left empty, see Credits, Videos and Similar.
func (c *Client) Movie(ctx context.Context, id int, lang catalog.Language) (catalog.MovieDetail, error) {
	var raw rawMovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), langParams(lang), &raw); err != nil {
		return catalog.MovieDetail{}, err
	}
	return c.mapper().detail(raw), nil
}

// Credits fetches the full cast and crew of a movie.
func (c *Client) Credits(ctx context.Context, id int, lang catalog.Language) (catalog.Credits, error) {
	var raw rawCredits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", id), langParams(lang), &raw); err != nil {
		return catalog.Credits{}, err
	}
	return c.mapper().credits(raw), nil
}

// Videos fetches every video attached to a movie.
func (c *Client) Videos(ctx context.Context, id int, lang catalog.Language) ([]catalog.Video, error) {
	var raw rawVideos
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", id), langParams(lang), &raw); err != nil {
		return nil, err
	}
	return c.mapper().videos(raw), nil
}

// Similar fetches the first page of movies similar to id.
func (c *Client) Similar(ctx context.Context, id int, lang catalog.Language) ([]catalog.Movie, error) {
	page, err := c.moviePage(ctx, fmt.Sprintf("/movie/%d/similar", id), pageParams(lang, 1))
	if err != nil {
		return nil, err
	}
	return page.Movies, nil
}

// Genres fetches the genre vocabulary.
func (c *Client) Genres(ctx context.Context, lang catalog.Language) ([]catalog.Genre, error) {
	var raw rawGenreList
	if err := c.get(ctx, "/genre/movie/list", langParams(lang), &raw); err != nil {
		return nil, err
	}
	return c.mapper().genres(raw.Genres), nil
}

// Providers fetches streaming providers of a region, ordered by display priority.
func (c *Client) Providers(ctx context.Context, region string, lang catalog.Language) ([]catalog.Provider, error) {
	if region == "" {
		region = DefaultWatchRegion
	}
	params := langParams(lang)
	params.Set("watch_region", strings.ToUpper(region))

	var raw rawProviderList
	if err := c.get(ctx, "/watch/providers/movie", params, &raw); err != nil {
		return nil, err
	}
	return c.mapper().providers(raw), nil
}
