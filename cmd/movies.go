package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/query"
	"github.com/s0up4200/reelscout/service"
)

var (
	pageFlag  int
	genreFlag int
)

func init() {
	for _, c := range []*cobra.Command{trendingCmd, searchCmd} {
		c.Flags().IntVarP(&pageFlag, "page", "p", 1, "page number")
	}
	for _, c := range []*cobra.Command{trendingCmd, upcomingCmd, searchCmd, sectionsCmd} {
		c.Flags().StringVarP(&filterArg, "filter", "f", "", "filter name from config or an inline expression")
	}
	searchCmd.Flags().IntVarP(&genreFlag, "genre", "g", 0, "genre id, used when no term is given (see 'reelscout genres')")

	rootCmd.AddCommand(trendingCmd, upcomingCmd, searchCmd, detailCmd, genresCmd, sectionsCmd, providersCmd)
}

// trendingCmd represents the trending command
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List this week's trending movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var view service.MoviesView
		err := withRetry(ctx, func() *catalog.Error {
			view = svc.TrendingMovies(ctx, pageFlag)
			return view.Err
		})
		if err != nil {
			return viewError(err)
		}
		return printMoviesView("Trending this week", view)
	},
}

// upcomingCmd represents the upcoming command
var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List upcoming releases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var view service.MoviesView
		err := withRetry(ctx, func() *catalog.Error {
			view = svc.UpcomingMovies(ctx)
			return view.Err
		})
		if err != nil {
			return viewError(err)
		}
		view.TotalPages = 0
		return printMoviesView("Upcoming", view)
	},
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [term...]",
	Short: "Search movies by title, or discover a genre with --genre",
	Long: `Search movies by title. Without a term, --genre lists the most popular
movies of that genre instead. A term always wins over --genre.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	term := strings.TrimSpace(strings.Join(args, " "))
	var genre *int
	if cmd.Flags().Changed("genre") {
		genre = &genreFlag
	}
	if term == "" && genre == nil {
		return fmt.Errorf("a search term or --genre is required")
	}

	coord := svc.Search()
	coord.SetQuery(term, genre)

	snap, err := settle(ctx, func() { coord.Refresh() })
	if err != nil {
		return err
	}
	if pageFlag > 1 && snap.TotalPages > 1 {
		if snap, err = settle(ctx, func() { coord.GoTo(pageFlag) }); err != nil {
			return err
		}
	}

	heading := fmt.Sprintf("Results for %q", term)
	if snap.Query.Mode() == query.ModeDiscover {
		heading = fmt.Sprintf("Popular in genre %d", *snap.Query.GenreID)
	}
	return printMoviesView(heading, svc.SearchView())
}

// settle runs dispatch and waits for the search to settle. Transient
// failures are retried with a refresh of the same page.
func settle(ctx context.Context, dispatch func()) (query.Snapshot, error) {
	coord := svc.Search()

	var snap query.Snapshot
	var waitErr error
	first := true
	apiErr := withRetry(ctx, func() *catalog.Error {
		if first {
			dispatch()
			first = false
		} else {
			coord.Refresh()
		}
		snap, waitErr = coord.Wait(ctx)
		if waitErr != nil {
			return nil
		}
		return snap.Err
	})
	if waitErr != nil {
		return snap, waitErr
	}
	return snap, viewError(apiErr)
}

// detailCmd represents the detail command
var detailCmd = &cobra.Command{
	Use:   "detail <movie-id>...",
	Short: "Show cast, crew, trailers and similar titles of movies",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetail,
}

func runDetail(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseMovieID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	if len(ids) == 1 {
		var view service.DetailView
		if err := withRetry(ctx, func() *catalog.Error {
			view = svc.MovieDetail(ctx, ids[0])
			return view.Err
		}); err != nil {
			return viewError(err)
		}
		return printDetailViews([]service.DetailView{view})
	}

	return printDetailViews(svc.MovieDetails(ctx, ids))
}

// printDetailViews prints every available detail and fails if any is missing.
func printDetailViews(views []service.DetailView) error {
	var failed int
	movies := make([]*catalog.MovieDetail, 0, len(views))
	for _, view := range views {
		if view.Err != nil {
			logger.Error().Err(view.Err).Msg("Failed to load movie")
			failed++
			continue
		}
		movies = append(movies, view.Movie)
	}

	if jsonOutput {
		if len(views) == 1 && len(movies) == 1 {
			if err := printJSON(movies[0]); err != nil {
				return err
			}
		} else if err := printJSON(movies); err != nil {
			return err
		}
	} else {
		for i, d := range movies {
			if i > 0 {
				fmt.Println()
			}
			printDetail(d)
			if svc.Favorites().IsFavorite(d.ID) {
				fmt.Println("\n★ In your favorites")
			}
		}
	}

	if failed > 0 {
		if len(views) == 1 {
			return viewError(views[0].Err)
		}
		return fmt.Errorf("%d of %d movies could not be loaded", failed, len(views))
	}
	return nil
}

// genresCmd represents the genres command
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genre vocabulary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var view service.GenresView
		if err := withRetry(ctx, func() *catalog.Error {
			view = svc.Genres(ctx)
			return view.Err
		}); err != nil {
			return viewError(err)
		}

		if jsonOutput {
			return printJSON(view.Genres)
		}
		fmt.Printf("%-8s %s\n", "ID", "NAME")
		for _, g := range view.Genres {
			fmt.Printf("%-8d %s\n", g.ID, g.Name)
		}
		return nil
	},
}

// sectionsCmd represents the sections command
var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Show popular movies of the main genres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var view service.SectionsView
		if err := withRetry(ctx, func() *catalog.Error {
			view = svc.GenreSections(ctx)
			return view.Err
		}); err != nil {
			return viewError(err)
		}

		for i := range view.Sections {
			movies, err := applyFilter(view.Sections[i].Movies)
			if err != nil {
				return err
			}
			view.Sections[i].Movies = movies
		}

		if jsonOutput {
			return printJSON(view.Sections)
		}
		for _, section := range view.Sections {
			printMovies(section.Genre.Name, section.Movies, 0, 0)
			fmt.Println()
		}
		return nil
	},
}

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List streaming providers of the configured watch region",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var view service.ProvidersView
		if err := withRetry(ctx, func() *catalog.Error {
			view = svc.Providers(ctx)
			return view.Err
		}); err != nil {
			return viewError(err)
		}

		if jsonOutput {
			return printJSON(view.Providers)
		}
		fmt.Printf("Streaming providers in %s:\n\n", cfg.TMDB.WatchRegion)
		fmt.Printf("%-4s %-8s %s\n", "#", "ID", "NAME")
		for _, p := range view.Providers {
			fmt.Printf("%-4d %-8d %s\n", p.DisplayPriority, p.ProviderID, p.ProviderName)
		}
		return nil
	},
}

func printMoviesView(heading string, view service.MoviesView) error {
	movies, err := applyFilter(view.Movies)
	if err != nil {
		return err
	}
	if jsonOutput {
		view.Movies = movies
		return printJSON(view)
	}
	printMovies(heading, movies, view.Page, view.TotalPages)
	return nil
}

func parseMovieID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q: must be a positive integer", s)
	}
	return id, nil
}
