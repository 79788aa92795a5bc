package tmdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelscout/catalog"
)

func strPtr(s string) *string { return &s }

func TestImageResolver(t *testing.T) {
	r := NewImageResolver("https://img.example/t/p/")

	tests := []struct {
		name string
		path *string
		tier Tier
		want *string
	}{
		{"nil path", nil, TierPoster, nil},
		{"blank path", strPtr("  "), TierPoster, nil},
		{"poster", strPtr("/abc.jpg"), TierPoster, strPtr("https://img.example/t/p/w500/abc.jpg")},
		{"backdrop", strPtr("/abc.jpg"), TierBackdrop, strPtr("https://img.example/t/p/w1280/abc.jpg")},
		{"logo without slash", strPtr("abc.png"), TierLogo, strPtr("https://img.example/t/p/w185/abc.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.path, tt.tier))
		})
	}
}

func TestMapperMovieNullImages(t *testing.T) {
	m := mapper{images: NewImageResolver("")}

	movie := m.movie(rawMovie{ID: 1, Title: "No Poster", ReleaseDate: "", VoteAverage: 11})
	assert.Nil(t, movie.PosterURL)
	assert.Nil(t, movie.BackdropURL)
	assert.Nil(t, movie.ReleaseDate)
	assert.Equal(t, 10.0, movie.VoteAverage)

	data, err := json.Marshal(movie)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"posterUrl":null`)
	assert.Contains(t, string(data), `"backdropUrl":null`)
	assert.Contains(t, string(data), `"releaseDate":null`)
}

func TestMapperInvalidReleaseDate(t *testing.T) {
	m := mapper{images: NewImageResolver("")}

	assert.Nil(t, m.movie(rawMovie{ReleaseDate: "31/03/1999"}).ReleaseDate)
	assert.Equal(t, 1999, m.movie(rawMovie{ReleaseDate: "1999-03-31"}).Year())
}

func TestMapperDetailDefaults(t *testing.T) {
	m := mapper{images: NewImageResolver("")}

	var raw rawMovieDetails
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 603,
		"title": "The Matrix",
		"runtime": null,
		"genres": [{"id": 28, "name": "Action"}],
		"production_companies": [{"id": 79, "name": "Village Roadshow", "logo_path": null}]
	}`), &raw))

	d := m.detail(raw)
	assert.Equal(t, 603, d.ID)
	assert.Zero(t, d.Runtime)
	assert.Equal(t, []catalog.Genre{{ID: 28, Name: "Action"}}, d.Genres)
	assert.Equal(t, []catalog.Company{{ID: 79, Name: "Village Roadshow"}}, d.ProductionCompanies)
	assert.NotNil(t, d.Credits.Cast)
	assert.NotNil(t, d.Credits.Crew)
	assert.NotNil(t, d.Videos)
	assert.NotNil(t, d.Similar)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"videos":[]`)
	assert.Contains(t, string(data), `"similar":[]`)
}

func TestMapperCredits(t *testing.T) {
	m := mapper{images: NewImageResolver("")}

	c := m.credits(rawCredits{
		Cast: []rawCastMember{{ID: 1, Name: "Keanu Reeves", Character: "Neo", ProfilePath: strPtr("/k.jpg")}},
		Crew: []rawCrewMember{{ID: 2, Name: "Lana Wachowski", Job: "Director"}},
	})

	require.Len(t, c.Cast, 1)
	require.NotNil(t, c.Cast[0].ProfileURL)
	assert.Equal(t, DefaultImageBaseURL+"/w500/k.jpg", *c.Cast[0].ProfileURL)
	assert.Equal(t, []catalog.CrewMember{{ID: 2, Name: "Lana Wachowski", Job: "Director"}}, c.Crew)
}

func TestMapperProviders(t *testing.T) {
	m := mapper{images: NewImageResolver("")}

	providers := m.providers(rawProviderList{Results: []rawProvider{
		{ProviderID: 1, ProviderName: "C", LogoPath: strPtr("/c.png"), DisplayPriority: 3},
		{ProviderID: 2, ProviderName: "No Logo", LogoPath: nil, DisplayPriority: 0},
		{ProviderID: 3, ProviderName: "A", LogoPath: strPtr("/a.png"), DisplayPriority: 1},
		{ProviderID: 4, ProviderName: "B", LogoPath: strPtr("/b.png"), DisplayPriority: 1},
	}})

	require.Len(t, providers, 3)
	assert.Equal(t, "A", providers[0].ProviderName)
	assert.Equal(t, "B", providers[1].ProviderName)
	assert.Equal(t, "C", providers[2].ProviderName)
	assert.Equal(t, DefaultImageBaseURL+"/w185/a.png", *providers[0].LogoURL)
}
