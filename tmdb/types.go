package tmdb

// Wire shapes returned by TMDB. Only the mapper reads them.

type rawMovie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
}

type rawMoviePage struct {
	Page         int        `json:"page"`
	Results      []rawMovie `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type rawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type rawCompany struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

type rawMovieDetails struct {
	rawMovie
	Tagline             string       `json:"tagline"`
	Runtime             *int         `json:"runtime"`
	Status              string       `json:"status"`
	Genres              []rawGenre   `json:"genres"`
	ProductionCompanies []rawCompany `json:"production_companies"`
	IMDbID              *string      `json:"imdb_id"`
	Homepage            string       `json:"homepage"`
}

type rawCastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	Order       int     `json:"order"`
	ProfilePath *string `json:"profile_path"`
}

type rawCrewMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	Department  string  `json:"department"`
	ProfilePath *string `json:"profile_path"`
}

type rawCredits struct {
	ID   int             `json:"id"`
	Cast []rawCastMember `json:"cast"`
	Crew []rawCrewMember `json:"crew"`
}

type rawVideo struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

type rawVideos struct {
	ID      int        `json:"id"`
	Results []rawVideo `json:"results"`
}

type rawGenreList struct {
	Genres []rawGenre `json:"genres"`
}

type rawProvider struct {
	ProviderID      int     `json:"provider_id"`
	ProviderName    string  `json:"provider_name"`
	LogoPath        *string `json:"logo_path"`
	DisplayPriority int     `json:"display_priority"`
}

type rawProviderList struct {
	Results []rawProvider `json:"results"`
}
