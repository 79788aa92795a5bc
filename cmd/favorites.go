package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/service"
)

func init() {
	favoritesListCmd.Flags().StringVarP(&filterArg, "filter", "f", "", "filter name from config or an inline expression")

	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd, favoritesToggleCmd)
	rootCmd.AddCommand(favoritesCmd)
}

// favoritesCmd represents the favorites command
var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage your favorite movies",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites in the order they were added",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printMoviesView("Favorites", service.MoviesView{Movies: svc.Favorites().Favorites})
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <movie-id>",
	Short: "Add a movie to your favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMovieID(args[0])
		if err != nil {
			return err
		}
		favorites := svc.Favorites()
		if favorites.IsFavorite(id) {
			fmt.Printf("Movie %d is already a favorite.\n", id)
			return nil
		}

		movie, err := fetchMovie(cmd.Context(), id)
		if err != nil {
			return err
		}
		added, err := favorites.AddFavorite(cmd.Context(), movie)
		if err != nil {
			return err
		}
		if !added {
			fmt.Printf("Movie %d is already a favorite.\n", id)
			return nil
		}
		fmt.Printf("★ Added %s (%s) to favorites\n", movie.Title, yearString(movie))
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <movie-id>",
	Short: "Remove a movie from your favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMovieID(args[0])
		if err != nil {
			return err
		}
		removed, err := svc.Favorites().RemoveFavorite(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("Movie %d is not a favorite.\n", id)
			return nil
		}
		fmt.Printf("✓ Removed %d from favorites\n", id)
		return nil
	},
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <movie-id>",
	Short: "Add a movie to your favorites, or remove it if it is already there",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMovieID(args[0])
		if err != nil {
			return err
		}
		return toggleFavorite(cmd, id)
	},
}

// toggleFavorite fetches the movie when it is about to be added, so the
// stored snapshot carries its title and artwork.
func toggleFavorite(cmd *cobra.Command, id int) error {
	ctx := cmd.Context()
	favorites := svc.Favorites()

	movie := catalog.Movie{ID: id}
	if !favorites.IsFavorite(id) {
		var err error
		if movie, err = fetchMovie(ctx, id); err != nil {
			return err
		}
	}

	on, err := favorites.ToggleFavorite(ctx, movie)
	if err != nil {
		return err
	}
	if on {
		fmt.Printf("★ Added %s (%s) to favorites\n", movie.Title, yearString(movie))
	} else {
		fmt.Printf("✓ Removed %d from favorites\n", id)
	}
	return nil
}

// fetchMovie loads the summary of id for storing as a favorite.
func fetchMovie(ctx context.Context, id int) (catalog.Movie, error) {
	var view service.DetailView
	if err := withRetry(ctx, func() *catalog.Error {
		view = svc.MovieDetail(ctx, id)
		return view.Err
	}); err != nil {
		return catalog.Movie{}, viewError(err)
	}
	return view.Movie.Movie, nil
}
