package service

import (
	"context"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/favorites"
	"github.com/s0up4200/reelscout/query"
)

// MoviesView is a page of movies as shown by a listing.
type MoviesView struct {
	Movies       []catalog.Movie `json:"movies"`
	Page         int             `json:"page"`
	TotalPages   int             `json:"totalPages"`
	TotalResults int             `json:"totalResults"`
	Loading      bool            `json:"loading"`
	Err          *catalog.Error  `json:"-"`
}

// DetailView is the aggregate of one movie. Movie is nil when Err is set.
type DetailView struct {
	Movie   *catalog.MovieDetail `json:"movie"`
	Loading bool                 `json:"loading"`
	Err     *catalog.Error       `json:"-"`
}

// GenresView is the genre vocabulary of the current language.
type GenresView struct {
	Genres  []catalog.Genre `json:"genres"`
	Loading bool            `json:"loading"`
	Err     *catalog.Error  `json:"-"`
}

// ProvidersView lists streaming providers of the configured region.
type ProvidersView struct {
	Providers []catalog.Provider `json:"providers"`
	Loading   bool               `json:"loading"`
	Err       *catalog.Error     `json:"-"`
}

// SectionsView holds the genre sections of a home screen.
type SectionsView struct {
	Sections []catalog.GenreSection `json:"sections"`
	Loading  bool                   `json:"loading"`
	Err      *catalog.Error         `json:"-"`
}

// FavoritesView exposes the favorites list and its mutations.
type FavoritesView struct {
	Favorites []catalog.Movie `json:"favorites"`
	store     *favorites.Store
}

// ToggleFavorite adds or removes m and reports whether it is now a favorite.
func (v FavoritesView) ToggleFavorite(ctx context.Context, m catalog.Movie) (bool, error) {
	return v.store.Toggle(ctx, m)
}

// AddFavorite stores m and reports whether it was not a favorite before.
func (v FavoritesView) AddFavorite(ctx context.Context, m catalog.Movie) (bool, error) {
	return v.store.Add(ctx, m)
}

// RemoveFavorite removes id and reports whether it was a favorite.
func (v FavoritesView) RemoveFavorite(ctx context.Context, id int) (bool, error) {
	return v.store.Remove(ctx, id)
}

// IsFavorite reports whether id is a favorite right now, not when the view was taken.
func (v FavoritesView) IsFavorite(id int) bool {
	return v.store.IsFavorite(id)
}

func moviesView(snap query.Snapshot) MoviesView {
	return MoviesView{
		Movies:       snap.Movies,
		Page:         snap.Query.Page,
		TotalPages:   snap.TotalPages,
		TotalResults: snap.TotalResults,
		Loading:      snap.Loading,
		Err:          snap.Err,
	}
}
