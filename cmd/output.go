package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/filter"
	"github.com/s0up4200/reelscout/pagination"
)

const ruleWidth = 85

var filterArg string

// applyFilter narrows movies with --filter, which is either the name of a
// configured filter or an inline expression.
func applyFilter(movies []catalog.Movie) ([]catalog.Movie, error) {
	if filterArg == "" {
		return movies, nil
	}
	f, err := svc.Filters().Resolve(filterArg)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	filtered := filter.Apply(f, movies)
	logger.Debug().
		Str("filter", f.Expression()).
		Int("before", len(movies)).
		Int("after", len(filtered)).
		Msg("Applied filter")
	return filtered, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRule() {
	fmt.Println(strings.Repeat("━", ruleWidth))
}

// printMovies prints a numbered movie table. page and totalPages are
// omitted when totalPages is 0.
func printMovies(heading string, movies []catalog.Movie, page, totalPages int) {
	if len(movies) == 0 {
		fmt.Printf("%s: no movies found.\n", heading)
		return
	}

	fmt.Printf("%s (%d):\n\n", heading, len(movies))
	printRule()
	fmt.Printf("%-4s %-8s %-50s %-6s %s\n", "#", "ID", "TITLE", "YEAR", "RATING")
	printRule()
	favorites := svc.Favorites()
	for i, m := range movies {
		title := truncate(m.Title, 46)
		if favorites.IsFavorite(m.ID) {
			title += " ★"
		}
		fmt.Printf("%-4d %-8d %-50s %-6s %.1f\n", i+1, m.ID, title, yearString(m), m.VoteAverage)
	}
	printRule()

	if totalPages > 0 {
		fmt.Printf("Page %d of %d  %s\n", page, totalPages, pageStrip(page, totalPages))
	}
}

// pageStrip renders the visible page window, marking the current page.
func pageStrip(page, totalPages int) string {
	window := pagination.Window(page, min(totalPages, pagination.MaxPages), pagination.DefaultWindow)
	parts := make([]string, 0, len(window))
	for _, n := range window {
		if n == page {
			parts = append(parts, fmt.Sprintf("[%d]", n))
		} else {
			parts = append(parts, fmt.Sprintf("%d", n))
		}
	}
	return strings.Join(parts, " ")
}

func printDetail(d *catalog.MovieDetail) {
	fmt.Printf("%s (%s)\n", d.Title, yearString(d.Movie))
	if d.Tagline != "" {
		fmt.Printf("%q\n", d.Tagline)
	}
	printRule()

	fmt.Printf("Rating:   %.1f (%d votes)\n", d.VoteAverage, d.VoteCount)
	if d.Runtime > 0 {
		fmt.Printf("Runtime:  %dh %02dm\n", d.Runtime/60, d.Runtime%60)
	}
	if d.Status != "" {
		fmt.Printf("Status:   %s\n", d.Status)
	}
	if len(d.Genres) > 0 {
		names := make([]string, 0, len(d.Genres))
		for _, g := range d.Genres {
			names = append(names, g.Name)
		}
		fmt.Printf("Genres:   %s\n", strings.Join(names, ", "))
	}
	if d.PosterURL != nil {
		fmt.Printf("Poster:   %s\n", *d.PosterURL)
	}

	if d.Overview != "" {
		fmt.Printf("\n%s\n", d.Overview)
	}

	if len(d.Credits.Crew) > 0 {
		fmt.Println("\nCrew:")
		for _, c := range d.Credits.Crew {
			fmt.Printf("  • %s (%s)\n", c.Name, c.Job)
		}
	}
	if len(d.Credits.Cast) > 0 {
		fmt.Println("\nCast:")
		for _, c := range d.Credits.Cast {
			fmt.Printf("  • %s as %s\n", c.Name, c.Character)
		}
	}
	if len(d.Videos) > 0 {
		fmt.Println("\nTrailers:")
		for _, v := range d.Videos {
			fmt.Printf("  • %s  https://www.youtube.com/watch?v=%s\n", v.Name, v.Key)
		}
	}
	if len(d.Similar) > 0 {
		fmt.Println("\nSimilar:")
		for _, m := range d.Similar {
			fmt.Printf("  • %s (%s) [%d]\n", m.Title, yearString(m), m.ID)
		}
	}
}

func yearString(m catalog.Movie) string {
	if y := m.Year(); y > 0 {
		return fmt.Sprintf("%d", y)
	}
	return "----"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
