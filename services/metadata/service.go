package metadata

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"filmento/models"
)

// Service is the normalization adapter between the TMDB API and the view
// layer. Every list operation returns an empty sequence on failure and every
// single-item operation returns nil; upstream errors are logged here, never
// propagated. When no credential is configured, trending and detail lookups
// serve the built-in demo catalog instead.
type Service struct {
	mu     sync.RWMutex
	client *tmdbClient
	cache  *gocache.Cache
}

func NewService(apiKey, language string) *Service {
	return &Service{
		client: newTMDBClient(apiKey, language, nil),
		cache:  gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// UpdateAPIKey swaps the credential at runtime and drops cached responses so
// fresh data is fetched with the new key.
func (s *Service) UpdateAPIKey(apiKey, language string) {
	s.mu.Lock()
	s.client = newTMDBClient(apiKey, language, s.client.httpc)
	s.mu.Unlock()

	s.cache.Flush()
	log.Printf("[metadata] tmdb credential updated, response cache cleared")
}

// DemoMode reports whether the service is running without a credential.
func (s *Service) DemoMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.client.isConfigured()
}

func (s *Service) getClient() *tmdbClient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// apiKind maps the internal kind onto TMDB's path segment.
func apiKind(kind models.MediaType) string {
	if kind == models.MediaTypeSeries {
		return "tv"
	}
	return "movie"
}

// Trending returns this week's trending titles for one kind. Without a
// credential it returns the demo catalog entries of that kind.
func (s *Service) Trending(ctx context.Context, kind models.MediaType) []models.MediaItem {
	client := s.getClient()
	if !client.isConfigured() {
		return demoTrending(kind)
	}
	return s.cachedList(ctx, client, "trending:"+string(kind), fmt.Sprintf("trending/%s/week", apiKind(kind)), nil, kind)
}

// TopRated returns the all-time top rated titles for one kind.
func (s *Service) TopRated(ctx context.Context, kind models.MediaType) []models.MediaItem {
	return s.cachedList(ctx, s.getClient(), "top_rated:"+string(kind), apiKind(kind)+"/top_rated", nil, kind)
}

// Upcoming returns movies with upcoming theatrical releases. TMDB only
// offers this feed for movies.
func (s *Service) Upcoming(ctx context.Context) []models.MediaItem {
	return s.cachedList(ctx, s.getClient(), "upcoming", "movie/upcoming", nil, models.MediaTypeMovie)
}

// DiscoverByGenre returns titles of one kind carrying the given genre.
func (s *Service) DiscoverByGenre(ctx context.Context, kind models.MediaType, genreID int64) []models.MediaItem {
	params := url.Values{}
	params.Set("with_genres", strconv.FormatInt(genreID, 10))
	params.Set("sort_by", "popularity.desc")
	key := fmt.Sprintf("discover:%s:%d", kind, genreID)
	return s.cachedList(ctx, s.getClient(), key, "discover/"+apiKind(kind), params, kind)
}

// Genres returns the resolvable genre list for one kind.
func (s *Service) Genres(ctx context.Context, kind models.MediaType) []models.Genre {
	key := "genres:" + string(kind)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Genre)
	}

	var payload struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := s.getClient().get(ctx, "genre/"+apiKind(kind)+"/list", nil, &payload); err != nil {
		log.Printf("[metadata] genre list failed kind=%s: %v", kind, err)
		return []models.Genre{}
	}
	if payload.Genres == nil {
		payload.Genres = []models.Genre{}
	}

	s.cache.SetDefault(key, payload.Genres)
	return payload.Genres
}

// Search runs a multi-kind search and keeps only movie and series results;
// people and other record kinds are dropped before normalization.
func (s *Service) Search(ctx context.Context, query string) []models.MediaItem {
	if query == "" {
		return []models.MediaItem{}
	}

	params := url.Values{}
	params.Set("query", query)

	var page rawPage
	if err := s.getClient().get(ctx, "search/multi", params, &page); err != nil {
		log.Printf("[metadata] search failed query=%q: %v", query, err)
		return []models.MediaItem{}
	}

	return normalizeMixedPage(page)
}

type rawDetail struct {
	rawMedia
	Genres          []models.Genre `json:"genres"`
	Runtime         int            `json:"runtime"`
	NumberOfSeasons int            `json:"number_of_seasons"`
	Seasons         []rawSeason    `json:"seasons"`
	Credits         *rawCredits    `json:"credits"`
	Videos          *struct {
		Results []rawVideo `json:"results"`
	} `json:"videos"`
	Recommendations     *rawPage       `json:"recommendations"`
	BelongsToCollection *rawCollection `json:"belongs_to_collection"`
}

type rawSeason struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	SeasonNumber int     `json:"season_number"`
	EpisodeCount int     `json:"episode_count"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	AirDate      string  `json:"air_date"`
}

type rawCredits struct {
	Cast []struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Character   string  `json:"character"`
		Order       int     `json:"order"`
		ProfilePath *string `json:"profile_path"`
	} `json:"cast"`
	Crew []struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Job         string  `json:"job"`
		Department  string  `json:"department"`
		ProfilePath *string `json:"profile_path"`
	} `json:"crew"`
}

type rawVideo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

type rawCollection struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
}

// Details fetches one title with credits, videos and recommendations in a
// single round trip. Returns nil when the title cannot be produced: without
// a credential that means "not in the demo catalog", otherwise "not found or
// upstream failure" (logged).
func (s *Service) Details(ctx context.Context, kind models.MediaType, id int64) *models.MediaItem {
	client := s.getClient()
	if !client.isConfigured() {
		return demoDetails(kind, id)
	}

	params := url.Values{}
	params.Set("append_to_response", "credits,videos,recommendations")

	var detail rawDetail
	endpoint := fmt.Sprintf("%s/%d", apiKind(kind), id)
	if err := client.get(ctx, endpoint, params, &detail); err != nil {
		log.Printf("[metadata] details failed %s/%d: %v", kind, id, err)
		return nil
	}

	item := normalize(detail.rawMedia, kind)
	item.Genres = detail.Genres

	switch kind {
	case models.MediaTypeMovie:
		item.RuntimeMinutes = detail.Runtime
	case models.MediaTypeSeries:
		item.NumberOfSeasons = detail.NumberOfSeasons
		item.Seasons = normalizeSeasons(detail.Seasons)
	}

	if detail.Credits != nil {
		item.Credits = normalizeCredits(detail.Credits)
	}
	if detail.Videos != nil {
		item.Videos = normalizeVideos(detail.Videos.Results)
	}
	if detail.Recommendations != nil {
		// Recommendation entries may be either kind; each carries its own
		// discriminant.
		item.Recommendations = normalizeMixedPage(*detail.Recommendations)
	}
	if detail.BelongsToCollection != nil {
		item.Collection = &models.Collection{
			ID:           detail.BelongsToCollection.ID,
			Name:         detail.BelongsToCollection.Name,
			PosterPath:   detail.BelongsToCollection.PosterPath,
			BackdropPath: detail.BelongsToCollection.BackdropPath,
		}
	}

	return &item
}

// Reviews fetches the upstream reviews for one title in upstream order.
// Failures yield an empty sequence so locally authored reviews still render.
func (s *Service) Reviews(ctx context.Context, kind models.MediaType, id int64) []models.Review {
	var payload struct {
		Results []struct {
			ID            string `json:"id"`
			Author        string `json:"author"`
			AuthorDetails struct {
				AvatarPath *string  `json:"avatar_path"`
				Rating     *float64 `json:"rating"`
			} `json:"author_details"`
			Content   string `json:"content"`
			CreatedAt string `json:"created_at"`
		} `json:"results"`
	}

	endpoint := fmt.Sprintf("%s/%d/reviews", apiKind(kind), id)
	if err := s.getClient().get(ctx, endpoint, nil, &payload); err != nil {
		log.Printf("[metadata] reviews failed %s/%d: %v", kind, id, err)
		return []models.Review{}
	}

	reviews := make([]models.Review, 0, len(payload.Results))
	for _, r := range payload.Results {
		reviews = append(reviews, models.Review{
			ID:        r.ID,
			Author:    r.Author,
			Avatar:    r.AuthorDetails.AvatarPath,
			Content:   r.Content,
			Rating:    r.AuthorDetails.Rating,
			CreatedAt: r.CreatedAt,
			Source:    models.ReviewSourceRemote,
		})
	}

	return reviews
}

// PersonDetails fetches a person with their combined movie and series
// credits, sorted by descending vote count and truncated to the top 15.
func (s *Service) PersonDetails(ctx context.Context, id int64) *models.PersonDetails {
	params := url.Values{}
	params.Set("append_to_response", "combined_credits")

	var payload struct {
		ID                 int64   `json:"id"`
		Name               string  `json:"name"`
		Biography          string  `json:"biography"`
		Birthday           string  `json:"birthday"`
		Deathday           string  `json:"deathday"`
		PlaceOfBirth       string  `json:"place_of_birth"`
		ProfilePath        *string `json:"profile_path"`
		KnownForDepartment string  `json:"known_for_department"`
		CombinedCredits    *struct {
			Cast []rawMedia `json:"cast"`
		} `json:"combined_credits"`
	}

	if err := s.getClient().get(ctx, fmt.Sprintf("person/%d", id), params, &payload); err != nil {
		log.Printf("[metadata] person failed id=%d: %v", id, err)
		return nil
	}

	details := &models.PersonDetails{
		Person: models.Person{
			ID:           payload.ID,
			Name:         payload.Name,
			Biography:    payload.Biography,
			Birthday:     payload.Birthday,
			Deathday:     payload.Deathday,
			PlaceOfBirth: payload.PlaceOfBirth,
			ProfilePath:  payload.ProfilePath,
			KnownFor:     payload.KnownForDepartment,
		},
		Credits: []models.MediaItem{},
	}

	if payload.CombinedCredits != nil {
		details.Credits = normalizeMixedPage(rawPage{Results: payload.CombinedCredits.Cast})
		sort.SliceStable(details.Credits, func(i, j int) bool {
			return details.Credits[i].VoteCount > details.Credits[j].VoteCount
		})
		if len(details.Credits) > 15 {
			details.Credits = details.Credits[:15]
		}
	}

	return details
}

// CollectionDetails fetches a movie collection with its parts sorted by
// ascending release date; parts with no date sort last.
func (s *Service) CollectionDetails(ctx context.Context, id int64) *models.CollectionDetails {
	var payload struct {
		ID           int64      `json:"id"`
		Name         string     `json:"name"`
		Overview     string     `json:"overview"`
		PosterPath   *string    `json:"poster_path"`
		BackdropPath *string    `json:"backdrop_path"`
		Parts        []rawMedia `json:"parts"`
	}

	if err := s.getClient().get(ctx, fmt.Sprintf("collection/%d", id), nil, &payload); err != nil {
		log.Printf("[metadata] collection failed id=%d: %v", id, err)
		return nil
	}

	parts := normalizePage(rawPage{Results: payload.Parts}, models.MediaTypeMovie)
	sort.SliceStable(parts, func(i, j int) bool {
		di, dj := parts[i].ReleaseDate, parts[j].ReleaseDate
		if di == "" {
			return false
		}
		if dj == "" {
			return true
		}
		return di < dj
	})

	return &models.CollectionDetails{
		ID:           payload.ID,
		Name:         payload.Name,
		Overview:     payload.Overview,
		PosterPath:   payload.PosterPath,
		BackdropPath: payload.BackdropPath,
		Parts:        parts,
	}
}

// SeasonDetails fetches one season of a series with its episode list.
func (s *Service) SeasonDetails(ctx context.Context, seriesID int64, seasonNumber int) *models.SeasonDetails {
	var payload struct {
		ID           int64   `json:"id"`
		Name         string  `json:"name"`
		SeasonNumber int     `json:"season_number"`
		Overview     string  `json:"overview"`
		PosterPath   *string `json:"poster_path"`
		AirDate      string  `json:"air_date"`
		Episodes     []struct {
			ID            int64   `json:"id"`
			Name          string  `json:"name"`
			Overview      string  `json:"overview"`
			SeasonNumber  int     `json:"season_number"`
			EpisodeNumber int     `json:"episode_number"`
			AirDate       string  `json:"air_date"`
			StillPath     *string `json:"still_path"`
			VoteAverage   float64 `json:"vote_average"`
		} `json:"episodes"`
	}

	endpoint := fmt.Sprintf("tv/%d/season/%d", seriesID, seasonNumber)
	if err := s.getClient().get(ctx, endpoint, nil, &payload); err != nil {
		log.Printf("[metadata] season failed series=%d season=%d: %v", seriesID, seasonNumber, err)
		return nil
	}

	episodes := make([]models.Episode, 0, len(payload.Episodes))
	for _, e := range payload.Episodes {
		episodes = append(episodes, models.Episode{
			ID:            e.ID,
			Name:          e.Name,
			Overview:      e.Overview,
			SeasonNumber:  e.SeasonNumber,
			EpisodeNumber: e.EpisodeNumber,
			AirDate:       e.AirDate,
			StillPath:     e.StillPath,
			VoteAverage:   e.VoteAverage,
		})
	}

	return &models.SeasonDetails{
		ID:           payload.ID,
		Name:         payload.Name,
		SeasonNumber: payload.SeasonNumber,
		Overview:     payload.Overview,
		PosterPath:   payload.PosterPath,
		AirDate:      payload.AirDate,
		Episodes:     episodes,
	}
}

// cachedList fetches a fixed-kind page through the response cache.
func (s *Service) cachedList(ctx context.Context, client *tmdbClient, cacheKey, endpoint string, params url.Values, kind models.MediaType) []models.MediaItem {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]models.MediaItem)
	}

	var page rawPage
	if err := client.get(ctx, endpoint, params, &page); err != nil {
		log.Printf("[metadata] %s failed: %v", endpoint, err)
		return []models.MediaItem{}
	}

	items := normalizePage(page, kind)
	if len(items) > 0 {
		s.cache.SetDefault(cacheKey, items)
	}
	return items
}

func normalizeSeasons(raw []rawSeason) []models.SeasonSummary {
	seasons := make([]models.SeasonSummary, 0, len(raw))
	for _, season := range raw {
		seasons = append(seasons, models.SeasonSummary{
			ID:           season.ID,
			Name:         season.Name,
			SeasonNumber: season.SeasonNumber,
			EpisodeCount: season.EpisodeCount,
			Overview:     season.Overview,
			PosterPath:   season.PosterPath,
			AirDate:      season.AirDate,
		})
	}
	return seasons
}

func normalizeCredits(raw *rawCredits) *models.Credits {
	credits := &models.Credits{
		Cast: make([]models.CastMember, 0, len(raw.Cast)),
		Crew: make([]models.CrewMember, 0, len(raw.Crew)),
	}
	for _, c := range raw.Cast {
		credits.Cast = append(credits.Cast, models.CastMember{
			ID:          c.ID,
			Name:        c.Name,
			Character:   c.Character,
			Order:       c.Order,
			ProfilePath: c.ProfilePath,
		})
	}
	for _, c := range raw.Crew {
		credits.Crew = append(credits.Crew, models.CrewMember{
			ID:          c.ID,
			Name:        c.Name,
			Job:         c.Job,
			Department:  c.Department,
			ProfilePath: c.ProfilePath,
		})
	}
	return credits
}

func normalizeVideos(raw []rawVideo) []models.Video {
	videos := make([]models.Video, 0, len(raw))
	for _, v := range raw {
		if v.Key == "" {
			continue
		}
		videos = append(videos, models.Video{
			ID:       v.ID,
			Name:     v.Name,
			Key:      v.Key,
			Site:     v.Site,
			Type:     v.Type,
			Official: v.Official,
		})
	}
	return videos
}
