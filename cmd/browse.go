package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelscout/catalog"
	"github.com/s0up4200/reelscout/query"
)

// searchListener receives search snapshots while browse is running.
var searchListener atomic.Pointer[func(query.Snapshot)]

func notifySearch(snap query.Snapshot) {
	if fn := searchListener.Load(); fn != nil {
		(*fn)(snap)
	}
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Search interactively, results refresh as you type",
	Long: `Search interactively. Every line you type replaces the search term and
results appear once you stop typing for a moment.

Commands:
  :genre <id>   discover a genre (used while the term is empty)
  :genre        clear the genre
  :clear        clear the term
  :next :prev   change page
  :page <n>     jump to a page
  :detail <#>   show the detail of a result
  :fav <#>      toggle a result as favorite
  :lang <code>  switch language (en-US, es-ES)
  :quit         exit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	coord := svc.Search()

	render := func(snap query.Snapshot) {
		switch snap.State {
		case query.StateSettled:
			fmt.Println()
			printMovies(browseHeading(snap), snap.Movies, snap.Query.Page, snap.TotalPages)
			fmt.Print("> ")
		case query.StateFailed:
			fmt.Printf("\n✗ %v\n", viewError(snap.Err))
			fmt.Print("> ")
		}
	}
	searchListener.Store(&render)
	defer searchListener.Store(nil)

	fmt.Println("Type to search, :quit to exit.")
	fmt.Print("> ")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := handleBrowseLine(cmd, coord, line)
			if err != nil {
				fmt.Printf("✗ %v\n> ", err)
				continue
			}
			if quit {
				return nil
			}
		}
	}
}

func handleBrowseLine(cmd *cobra.Command, coord *query.Coordinator, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		coord.SetTerm(line)
		return false, nil
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit", "exit":
		return true, nil
	case "clear":
		coord.SetTerm("")
	case "genre":
		if arg == "" {
			coord.SetGenre(nil)
			return false, nil
		}
		id, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("invalid genre id %q", arg)
		}
		coord.SetGenre(&id)
	case "next":
		if !coord.Next() {
			return false, fmt.Errorf("no next page")
		}
	case "prev":
		if !coord.Prev() {
			return false, fmt.Errorf("no previous page")
		}
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("invalid page %q", arg)
		}
		if !coord.GoTo(n) {
			return false, fmt.Errorf("already on that page or no results yet")
		}
	case "lang":
		lang, err := svc.SetLanguage(cmd.Context(), catalog.Language(arg))
		if err != nil {
			return false, err
		}
		fmt.Printf("✓ Language set to %s\n> ", lang)
	case "detail", "fav":
		movie, err := browseResult(arg)
		if err != nil {
			return false, err
		}
		if name == "fav" {
			if err := toggleFavorite(cmd, movie.ID); err != nil {
				return false, err
			}
		} else {
			view := svc.MovieDetail(cmd.Context(), movie.ID)
			if view.Err != nil {
				return false, viewError(view.Err)
			}
			printDetail(view.Movie)
		}
		fmt.Print("> ")
	default:
		return false, fmt.Errorf("unknown command :%s", name)
	}
	return false, nil
}

// browseResult returns the n-th visible result, counting from 1.
func browseResult(arg string) (catalog.Movie, error) {
	movies := svc.SearchView().Movies
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(movies) {
		return catalog.Movie{}, fmt.Errorf("invalid result number %q: must be between 1 and %d", arg, len(movies))
	}
	return movies[n-1], nil
}

func browseHeading(snap query.Snapshot) string {
	if snap.Query.Mode() == query.ModeDiscover {
		return fmt.Sprintf("Popular in genre %d", *snap.Query.GenreID)
	}
	return fmt.Sprintf("Results for %q", snap.Query.Term)
}
