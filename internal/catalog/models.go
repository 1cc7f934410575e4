package catalog

// Spotlight is one slide of the home page carousel.
type Spotlight struct {
	ID            *string `json:"id"`
	Title         string  `json:"title"`
	JapaneseTitle *string `json:"japaneseTitle"`
	Image         *string `json:"image"`
	Type          string  `json:"type"`
	Duration      string  `json:"duration"`
	ReleaseDate   string  `json:"releaseDate"`
	Description   string  `json:"description"`
	URL           *string `json:"url"`
	AnilistID     *int    `json:"anilistId"`
}

// Trending is a ranked entry of the trending strip. Rank is 1-based.
type Trending struct {
	ID            *string `json:"id"`
	Rank          int     `json:"rank"`
	Title         string  `json:"title"`
	JapaneseTitle *string `json:"japaneseTitle"`
	Image         *string `json:"image"`
	URL           *string `json:"url"`
	AnilistID     *int    `json:"anilistId"`
}

// Listed is an entry of the top airing and completed blocks.
type Listed struct {
	ID            *string `json:"id"`
	Title         string  `json:"title"`
	JapaneseTitle *string `json:"japaneseTitle"`
	Image         *string `json:"image"`
	URL           *string `json:"url"`
	Type          string  `json:"type"`
	AnilistID     *int    `json:"anilistId"`
}

// LatestEpisode is a card of the latest episodes grid.
type LatestEpisode struct {
	ID              *string  `json:"id"`
	Title           string   `json:"title"`
	JapaneseTitle   *string  `json:"japaneseTitle"`
	Image           *string  `json:"image"`
	URL             *string  `json:"url"`
	Type            string   `json:"type"`
	Duration        string   `json:"duration"`
	EpisodeProgress string   `json:"episodeProgress"`
	Languages       []string `json:"languages"`
	IsAdult         bool     `json:"isAdult"`
	AnilistID       *int     `json:"anilistId"`
}

// Genre links to a genre listing.
type Genre struct {
	Name string  `json:"name"`
	URL  *string `json:"url"`
}

// Home is the scraped home page.
type Home struct {
	Spotlight      []Spotlight     `json:"spotlight"`
	Trending       []Trending      `json:"trending"`
	TopAiring      []Listed        `json:"topAiring"`
	Completed      []Listed        `json:"completed"`
	LatestEpisodes []LatestEpisode `json:"latestEpisodes"`
	Genres         []Genre         `json:"genres"`
}

// Season links to another season of the same franchise.
type Season struct {
	ID     *string `json:"id"`
	Title  string  `json:"title"`
	Poster *string `json:"poster"`
	Active bool    `json:"active"`
}

// Episode is one entry of a show's episode list. ID is the episode id the
// source endpoint accepts.
type Episode struct {
	ID            string  `json:"id"`
	Number        int     `json:"number"`
	Title         string  `json:"title"`
	JapaneseTitle *string `json:"japaneseTitle"`
	URL           *string `json:"url"`
}

// Info is the scraped detail page of one show.
type Info struct {
	ID            string            `json:"id"`
	MovieID       *string           `json:"movieId"`
	AnilistID     *int              `json:"anilistId"`
	Title         string            `json:"title"`
	JapaneseTitle string            `json:"japaneseTitle"`
	Poster        *string           `json:"poster"`
	Cover         *string           `json:"cover"`
	Description   string            `json:"description"`
	Meta          map[string]string `json:"meta"`
	Seasons       []Season          `json:"seasons"`
	Episodes      []Episode         `json:"episodes"`
	TotalEpisodes *int              `json:"totalEpisodes"`
}
