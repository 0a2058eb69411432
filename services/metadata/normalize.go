package metadata

import (
	"filmento/models"
)

// rawMedia is the superset of the two upstream list-record shapes. Movie
// records populate title/original_title/release_date; series records
// populate name/original_name/first_air_date. Mixed endpoints additionally
// carry the media_type discriminant.
type rawMedia struct {
	ID            int64    `json:"id"`
	MediaType     string   `json:"media_type"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Name          string   `json:"name"`
	OriginalName  string   `json:"original_name"`
	Overview      string   `json:"overview"`
	PosterPath    *string  `json:"poster_path"`
	BackdropPath  *string  `json:"backdrop_path"`
	ReleaseDate   string   `json:"release_date"`
	FirstAirDate  string   `json:"first_air_date"`
	VoteAverage   float64  `json:"vote_average"`
	VoteCount     int      `json:"vote_count"`
	GenreIDs      []int64  `json:"genre_ids"`
}

type rawPage struct {
	Page         int        `json:"page"`
	Results      []rawMedia `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// normalize converts one raw upstream record into the unified MediaItem for
// the given kind. Pure; the caller decides the kind either from the record's
// media_type discriminant or from the endpoint it queried.
func normalize(raw rawMedia, kind models.MediaType) models.MediaItem {
	item := models.MediaItem{
		ID:           raw.ID,
		Type:         kind,
		Overview:     raw.Overview,
		PosterPath:   raw.PosterPath,
		BackdropPath: raw.BackdropPath,
		VoteAverage:  raw.VoteAverage,
		VoteCount:    raw.VoteCount,
		GenreIDs:     raw.GenreIDs,
	}

	switch kind {
	case models.MediaTypeSeries:
		item.Title = raw.Name
		item.OriginalTitle = raw.OriginalName
		item.ReleaseDate = raw.FirstAirDate
	default:
		item.Title = raw.Title
		item.OriginalTitle = raw.OriginalTitle
		item.ReleaseDate = raw.ReleaseDate
	}

	return item
}

// normalizePage normalizes every record of a fixed-kind page, preserving
// upstream order.
func normalizePage(page rawPage, kind models.MediaType) []models.MediaItem {
	items := make([]models.MediaItem, 0, len(page.Results))
	for _, raw := range page.Results {
		items = append(items, normalize(raw, kind))
	}
	return items
}

// normalizeMixedPage normalizes records from a mixed-type endpoint, dropping
// everything that is not a movie or series (people, most prominently)
// before normalization is ever invoked.
func normalizeMixedPage(page rawPage) []models.MediaItem {
	items := make([]models.MediaItem, 0, len(page.Results))
	for _, raw := range page.Results {
		kind, ok := models.ParseMediaType(raw.MediaType)
		if !ok {
			continue
		}
		items = append(items, normalize(raw, kind))
	}
	return items
}
