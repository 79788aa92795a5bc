package tmdb

import (
	"cmp"
	"slices"
	"time"

	"github.com/s0up4200/reelscout/catalog"
)

const releaseDateLayout = "2006-01-02"

// mapper converts wire shapes into catalog entities. It never fails: missing
// optional fields become nil pointers or empty slices.
type mapper struct {
	images ImageResolver
}

func (m mapper) movie(r rawMovie) catalog.Movie {
	return catalog.Movie{
		ID:               r.ID,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		PosterURL:        m.images.Resolve(r.PosterPath, TierPoster),
		BackdropURL:      m.images.Resolve(r.BackdropPath, TierBackdrop),
		VoteAverage:      clampVote(r.VoteAverage),
		VoteCount:        max(r.VoteCount, 0),
		ReleaseDate:      parseDate(r.ReleaseDate),
		OriginalLanguage: r.OriginalLanguage,
	}
}

func (m mapper) movies(rs []rawMovie) []catalog.Movie {
	out := make([]catalog.Movie, 0, len(rs))
	for _, r := range rs {
		out = append(out, m.movie(r))
	}
	return out
}

func (m mapper) page(r rawMoviePage) catalog.MoviePage {
	return catalog.MoviePage{
		Page:         max(r.Page, 1),
		TotalPages:   max(r.TotalPages, 0),
		TotalResults: max(r.TotalResults, 0),
		Movies:       m.movies(r.Results),
	}
}

func (m mapper) detail(r rawMovieDetails) catalog.MovieDetail {
	d := catalog.MovieDetail{
		Movie:               m.movie(r.rawMovie),
		Tagline:             r.Tagline,
		Status:              r.Status,
		Genres:              m.genres(r.Genres),
		ProductionCompanies: make([]catalog.Company, 0, len(r.ProductionCompanies)),
		Credits:             catalog.Credits{Cast: []catalog.CastMember{}, Crew: []catalog.CrewMember{}},
		Videos:              []catalog.Video{},
		Similar:             []catalog.Movie{},
	}
	if r.Runtime != nil {
		d.Runtime = *r.Runtime
	}
	for _, c := range r.ProductionCompanies {
		d.ProductionCompanies = append(d.ProductionCompanies, catalog.Company{ID: c.ID, Name: c.Name})
	}
	return d
}

func (m mapper) genres(rs []rawGenre) []catalog.Genre {
	out := make([]catalog.Genre, 0, len(rs))
	for _, g := range rs {
		out = append(out, catalog.Genre{ID: g.ID, Name: g.Name})
	}
	return out
}

func (m mapper) credits(r rawCredits) catalog.Credits {
	c := catalog.Credits{
		Cast: make([]catalog.CastMember, 0, len(r.Cast)),
		Crew: make([]catalog.CrewMember, 0, len(r.Crew)),
	}
	for _, a := range r.Cast {
		c.Cast = append(c.Cast, catalog.CastMember{
			ID:         a.ID,
			Name:       a.Name,
			Character:  a.Character,
			ProfileURL: m.images.Resolve(a.ProfilePath, TierPoster),
		})
	}
	for _, p := range r.Crew {
		c.Crew = append(c.Crew, catalog.CrewMember{ID: p.ID, Name: p.Name, Job: p.Job})
	}
	return c
}

func (m mapper) videos(r rawVideos) []catalog.Video {
	out := make([]catalog.Video, 0, len(r.Results))
	for _, v := range r.Results {
		out = append(out, catalog.Video{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type})
	}
	return out
}

// providers drops entries without a logo and orders by display priority.
func (m mapper) providers(r rawProviderList) []catalog.Provider {
	out := make([]catalog.Provider, 0, len(r.Results))
	for _, p := range r.Results {
		logo := m.images.Resolve(p.LogoPath, TierLogo)
		if logo == nil {
			continue
		}
		out = append(out, catalog.Provider{
			ProviderID:      p.ProviderID,
			ProviderName:    p.ProviderName,
			LogoURL:         logo,
			DisplayPriority: p.DisplayPriority,
		})
	}
	slices.SortStableFunc(out, func(a, b catalog.Provider) int {
		return cmp.Compare(a.DisplayPriority, b.DisplayPriority)
	})
	return out
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func clampVote(v float64) float64 {
	return min(max(v, 0), 10)
}
