package models

// MediaType discriminates the two supported media kinds. Every media entity
// carries one; identity is always the (MediaType, ID) pair since TMDB ids are
// only unique within a kind.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// ParseMediaType maps upstream discriminants ("movie", "tv") and loose caller
// input onto a MediaType. The second return is false for unsupported kinds
// (people in multi-search results, for example), which callers drop.
func ParseMediaType(raw string) (MediaType, bool) {
	switch raw {
	case "movie", "movies", "film":
		return MediaTypeMovie, true
	case "tv", "series", "show", "shows":
		return MediaTypeSeries, true
	default:
		return "", false
	}
}

// MediaItem is the unified entity both upstream schemas normalize into.
// List fetches populate only the summary fields; Details, Videos,
// Recommendations, Collection and Seasons are filled by the detail fetch.
type MediaItem struct {
	ID            int64     `json:"id"`
	Type          MediaType `json:"type"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"originalTitle,omitempty"`
	Overview      string    `json:"overview"`
	PosterPath    *string   `json:"posterPath"`
	BackdropPath  *string   `json:"backdropPath"`
	// ReleaseDate is "YYYY-MM-DD", or "" when upstream has none. Never null.
	ReleaseDate string  `json:"releaseDate"`
	VoteAverage float64 `json:"voteAverage"`
	VoteCount   int     `json:"voteCount"`
	GenreIDs    []int64 `json:"genreIds,omitempty"`
	Genres      []Genre `json:"genres,omitempty"`
	Demo        bool    `json:"demo,omitempty"`

	// Movie only.
	RuntimeMinutes int `json:"runtimeMinutes,omitempty"`

	// Series only.
	NumberOfSeasons int             `json:"numberOfSeasons,omitempty"`
	Seasons         []SeasonSummary `json:"seasons,omitempty"`

	// Detail fetch only.
	Credits         *Credits    `json:"credits,omitempty"`
	Videos          []Video     `json:"videos,omitempty"`
	Recommendations []MediaItem `json:"recommendations,omitempty"`
	Collection      *Collection `json:"collection,omitempty"`
}

// Key returns the (type, id) identity used for list membership.
func (m MediaItem) Key() MediaKey {
	return MediaKey{Type: m.Type, ID: m.ID}
}

// MediaKey identifies a MediaItem across lists and storage.
type MediaKey struct {
	Type MediaType
	ID   int64
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	Order       int     `json:"order"`
	ProfilePath *string `json:"profilePath"`
}

type CrewMember struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	Department  string  `json:"department,omitempty"`
	ProfilePath *string `json:"profilePath"`
}

// Credits holds cast and crew for a title.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type Video struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// Collection is the parent collection reference on a movie detail.
type Collection struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	PosterPath   *string `json:"posterPath"`
	BackdropPath *string `json:"backdropPath"`
}

// CollectionDetails contains the full collection with its member movies,
// sorted by ascending release date.
type CollectionDetails struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Overview     string      `json:"overview,omitempty"`
	PosterPath   *string     `json:"posterPath"`
	BackdropPath *string     `json:"backdropPath"`
	Parts        []MediaItem `json:"parts"`
}

type SeasonSummary struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	SeasonNumber int     `json:"seasonNumber"`
	EpisodeCount int     `json:"episodeCount"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   *string `json:"posterPath"`
	AirDate      string  `json:"airDate,omitempty"`
}

type Episode struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	SeasonNumber  int     `json:"seasonNumber"`
	EpisodeNumber int     `json:"episodeNumber"`
	AirDate       string  `json:"airDate,omitempty"`
	StillPath     *string `json:"stillPath"`
	VoteAverage   float64 `json:"voteAverage,omitempty"`
}

// SeasonDetails is one season of a series with its episode list.
type SeasonDetails struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	SeasonNumber int       `json:"seasonNumber"`
	Overview     string    `json:"overview,omitempty"`
	PosterPath   *string   `json:"posterPath"`
	AirDate      string    `json:"airDate,omitempty"`
	Episodes     []Episode `json:"episodes"`
}

// Person is an actor or crew member with their combined filmography.
type Person struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Biography    string  `json:"biography,omitempty"`
	Birthday     string  `json:"birthday,omitempty"`
	Deathday     string  `json:"deathday,omitempty"`
	PlaceOfBirth string  `json:"placeOfBirth,omitempty"`
	ProfilePath  *string `json:"profilePath"`
	KnownFor     string  `json:"knownFor,omitempty"`
}

// PersonDetails pairs a person with their known-for credits, sorted by
// descending vote count and truncated upstream of the handler.
type PersonDetails struct {
	Person  Person      `json:"person"`
	Credits []MediaItem `json:"credits"`
}
