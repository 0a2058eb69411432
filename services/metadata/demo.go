package metadata

import (
	"filmento/models"
)

func strptr(s string) *string { return &s }

// demoCatalog is served when no TMDB credential is configured, so a fresh
// install always has something to render. Entries are tagged Demo and
// titled accordingly; they disappear as soon as a credential is saved.
var demoCatalog = []models.MediaItem{
	{
		ID:            27205,
		Type:          models.MediaTypeMovie,
		Title:         "Inception (Demo)",
		OriginalTitle: "Inception",
		Overview:      "A skilled thief who steals valuable secrets from deep within the subconscious during dreams is offered a chance to have his criminal history erased.",
		PosterPath:    strptr("/9gk7admal4zl67Yrxio2DI12qKA.jpg"),
		BackdropPath:  strptr("/s3TBrRGB1jav7loZ1Gj9t7kGWNL.jpg"),
		ReleaseDate:   "2010-07-15",
		VoteAverage:   8.8,
		VoteCount:     35000,
		Demo:          true,
	},
	{
		ID:            1399,
		Type:          models.MediaTypeSeries,
		Title:         "Game of Thrones (Demo)",
		OriginalTitle: "Game of Thrones",
		Overview:      "Seven noble families fight for control of the mythical land of Westeros as an ancient enemy returns after being dormant for millennia.",
		PosterPath:    strptr("/1XS1oqL89opfnbGw83trg95trUR.jpg"),
		BackdropPath:  strptr("/2OMB0ynKlyIenMJt85r4bJjFStD.jpg"),
		ReleaseDate:   "2011-04-17",
		VoteAverage:   8.4,
		VoteCount:     22000,
		Demo:          true,
	},
}

func demoTrending(kind models.MediaType) []models.MediaItem {
	items := make([]models.MediaItem, 0, len(demoCatalog))
	for _, item := range demoCatalog {
		if item.Type == kind {
			items = append(items, item)
		}
	}
	return items
}

func demoDetails(kind models.MediaType, id int64) *models.MediaItem {
	for _, item := range demoCatalog {
		if item.Type == kind && item.ID == id {
			copied := item
			return &copied
		}
	}
	return nil
}
