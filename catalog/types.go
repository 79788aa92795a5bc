package catalog

import "time"

// Movie is the internal representation of a catalog title.
// Nullable fields are pointers and always serialized, so the JSON shape
// never depends on which fields the upstream filled in.
type Movie struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	OriginalTitle    string     `json:"originalTitle"`
	Overview         string     `json:"overview"`
	PosterURL        *string    `json:"posterUrl"`
	BackdropURL      *string    `json:"backdropUrl"`
	VoteAverage      float64    `json:"voteAverage"`
	VoteCount        int        `json:"voteCount"`
	ReleaseDate      *time.Time `json:"releaseDate"`
	OriginalLanguage string     `json:"originalLanguage"`
}

// Year returns the release year, or 0 when the release date is unknown.
func (m Movie) Year() int {
	if m.ReleaseDate == nil {
		return 0
	}
	return m.ReleaseDate.Year()
}

// Clone returns a deep copy so snapshots do not share pointers with the source.
func (m Movie) Clone() Movie {
	c := m
	if m.PosterURL != nil {
		v := *m.PosterURL
		c.PosterURL = &v
	}
	if m.BackdropURL != nil {
		v := *m.BackdropURL
		c.BackdropURL = &v
	}
	if m.ReleaseDate != nil {
		v := *m.ReleaseDate
		c.ReleaseDate = &v
	}
	return c
}

// Genre is an entry of the genre vocabulary.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Company is a production company.
type Company struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Provider is a streaming provider for a watch region.
type Provider struct {
	ProviderID      int     `json:"providerId"`
	ProviderName    string  `json:"providerName"`
	LogoURL         *string `json:"logoUrl"`
	DisplayPriority int     `json:"displayPriority"`
}

// CastMember is a credited actor.
type CastMember struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Character  string  `json:"character"`
	ProfileURL *string `json:"profileUrl"`
}

// CrewMember is a credited crew member.
type CrewMember struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits groups cast and crew of a movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is a video attached to a movie. Type is kept so callers can
// distinguish trailers from teasers and featurettes.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// MovieDetail is the aggregate rendered by a detail view.
type MovieDetail struct {
	Movie
	Runtime             int       `json:"runtime"`
	Status              string    `json:"status"`
	Tagline             string    `json:"tagline"`
	Genres              []Genre   `json:"genres"`
	ProductionCompanies []Company `json:"productionCompanies"`
	Credits             Credits   `json:"credits"`
	Videos              []Video   `json:"videos"`
	Similar             []Movie   `json:"similar"`
}

// MoviePage is one page of a paginated movie listing.
type MoviePage struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"totalPages"`
	TotalResults int     `json:"totalResults"`
	Movies       []Movie `json:"movies"`
}

// GenreSection is a genre together with a handful of its popular movies.
type GenreSection struct {
	Genre  Genre   `json:"genre"`
	Movies []Movie `json:"movies"`
}
