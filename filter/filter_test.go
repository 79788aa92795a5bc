package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelscout/catalog"
)

func testMovies() []catalog.Movie {
	date := func(s string) *time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return &t
	}
	poster := "https://image.tmdb.org/t/p/w500/x.jpg"

	return []catalog.Movie{
		{ID: 603, Title: "The Matrix", VoteAverage: 8.2, VoteCount: 25000, ReleaseDate: date("1999-03-31"), PosterURL: &poster, OriginalLanguage: "en"},
		{ID: 604, Title: "The Matrix Reloaded", VoteAverage: 7.0, VoteCount: 11000, ReleaseDate: date("2003-05-15"), OriginalLanguage: "en"},
		{ID: 1417, Title: "El laberinto del fauno", VoteAverage: 7.8, VoteCount: 10000, ReleaseDate: date("2006-10-11"), PosterURL: &poster, OriginalLanguage: "es"},
		{ID: 9999, Title: "Untitled Project", VoteAverage: 0, VoteCount: 0, ReleaseDate: nil},
	}
}

func ids(movies []catalog.Movie) []int {
	out := make([]int, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `VoteAverage >= 7.5`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `contains(Title, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown field",
			expression: `Watched == true`,
			wantErr:    true,
		},
		{
			name:       "non boolean result",
			expression: `Year + 1`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `Year >= 2000 and VoteCount > 100 and not contains(Title, "reloaded")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, filter.Expression())
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []int
	}{
		{"rating threshold", `VoteAverage >= 7.5`, []int{603, 1417}},
		{"year range", `Year >= 2000 and Year < 2005`, []int{604}},
		{"unknown release date", `Year == 0`, []int{9999}},
		{"case-insensitive title", `contains(Title, "MATRIX")`, []int{603, 604}},
		{"prefix", `startsWith(Title, "el ")`, []int{1417}},
		{"language", `OriginalLanguage == "es"`, []int{1417}},
		{"poster", `HasPoster`, []int{603, 1417}},
		{"released before date", `IsReleased and Released < parseDate("2000-01-01")`, []int{603}},
		{"old releases", `IsReleased and daysSince(Released) > 365`, []int{603, 604, 1417}},
		{"no matches", `VoteCount > 1000000`, []int{}},
	}

	movies := testMovies()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(Apply(filter, movies)))
		})
	}
}

func TestCompilerCache(t *testing.T) {
	c := NewCompiler(WithCache(2))

	first, err := c.Compile("Year > 2000")
	require.NoError(t, err)
	again, err := c.Compile("  Year > 2000  ")
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = c.Compile("Year > 2001")
	require.NoError(t, err)
	_, err = c.Compile("Year > 2002")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	evicted, err := c.Compile("Year > 2000")
	require.NoError(t, err)
	assert.NotSame(t, first, evicted)

	c.Clear()
	assert.Zero(t, c.Size())

	// a hit makes the entry the most recently used
	recent, err := c.Compile("Year > 2010")
	require.NoError(t, err)
	_, err = c.Compile("Year > 2011")
	require.NoError(t, err)
	_, err = c.Compile("Year > 2010")
	require.NoError(t, err)
	_, err = c.Compile("Year > 2012")
	require.NoError(t, err)
	kept, err := c.Compile("Year > 2010")
	require.NoError(t, err)
	assert.Same(t, recent, kept)
}

func TestCustomFunctions(t *testing.T) {
	favorites := map[int]bool{604: true}
	c := NewCompiler(WithCustomFunctions(map[string]any{
		"isFavorite": func(id int) bool { return favorites[id] },
	}))

	filter, err := c.Compile(`isFavorite(ID)`)
	require.NoError(t, err)
	assert.Equal(t, []int{604}, ids(Apply(filter, testMovies())))
}

func TestManager(t *testing.T) {
	m := NewManager()

	require.NoError(t, m.RegisterFilters(map[string]string{
		"top_rated": "VoteAverage >= 7.5 and VoteCount >= 1000",
		"recent":    "Year >= 2003",
	}))
	assert.Equal(t, []string{"recent", "top_rated"}, m.Names())

	top, err := m.Apply("top_rated", testMovies())
	require.NoError(t, err)
	assert.Equal(t, []int{603, 1417}, ids(top))

	_, err = m.Apply("missing", testMovies())
	assert.ErrorIs(t, err, ErrUnknownFilter)

	err = m.RegisterFilters(map[string]string{"ok": "Year > 1", "broken": "Year >"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	_, ok := m.Get("ok")
	assert.False(t, ok, "a failed batch registers nothing")
}

func TestManagerResolve(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.RegisterFilter("recent", "Year >= 2003"))

	named, err := m.Resolve("recent")
	require.NoError(t, err)
	assert.Equal(t, "Year >= 2003", named.Expression())

	inline, err := m.Resolve(`OriginalLanguage == "en"`)
	require.NoError(t, err)
	assert.Equal(t, []int{603, 604}, ids(Apply(inline, testMovies())))
}
