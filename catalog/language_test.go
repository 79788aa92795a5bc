package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		code     string
		expected Language
		wantErr  bool
	}{
		{"en-US", English, false},
		{"es-ES", Spanish, false},
		{"es", Spanish, false},
		{"en", English, false},
		{"not a language", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := ParseLanguage(tt.code)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLanguageShort(t *testing.T) {
	assert.Equal(t, "es", Spanish.Short())
	assert.Equal(t, "en", English.Short())
}

func TestMovieClone(t *testing.T) {
	poster := "https://image.tmdb.org/t/p/w500/a.jpg"
	date := time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC)
	m := Movie{ID: 603, Title: "The Matrix", PosterURL: &poster, ReleaseDate: &date}

	c := m.Clone()
	*c.PosterURL = "changed"

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/a.jpg", *m.PosterURL)
	assert.Equal(t, 1999, c.Year())
	assert.Equal(t, 0, Movie{}.Year())
}
