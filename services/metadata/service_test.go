package metadata

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"filmento/models"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestService(apiKey string, rt roundTripFunc) *Service {
	svc := &Service{
		client: newTMDBClient(apiKey, "en-US", &http.Client{Transport: rt}),
		cache:  gocache.New(time.Minute, time.Minute),
	}
	svc.client.minInterval = 0
	return svc
}

func TestNormalizeMapsBothKindsFaithfully(t *testing.T) {
	movieRaw := rawMedia{
		ID:            1399,
		Title:         "Some Movie",
		OriginalTitle: "Some Movie Original",
		Overview:      "A movie.",
		ReleaseDate:   "2010-07-15",
		VoteAverage:   8.8,
		VoteCount:     35000,
	}
	seriesRaw := rawMedia{
		ID:           1399,
		Name:         "Some Show",
		OriginalName: "Some Show Original",
		Overview:     "A movie.",
		FirstAirDate: "2011-04-17",
		VoteAverage:  8.8,
		VoteCount:    35000,
	}

	movie := normalize(movieRaw, models.MediaTypeMovie)
	series := normalize(seriesRaw, models.MediaTypeSeries)

	if movie.Title != "Some Movie" || movie.OriginalTitle != "Some Movie Original" {
		t.Fatalf("movie titles mapped wrong: %+v", movie)
	}
	if movie.ReleaseDate != "2010-07-15" {
		t.Fatalf("movie release date mapped wrong: %q", movie.ReleaseDate)
	}
	if series.Title != "Some Show" || series.OriginalTitle != "Some Show Original" {
		t.Fatalf("series titles mapped wrong: %+v", series)
	}
	if series.ReleaseDate != "2011-04-17" {
		t.Fatalf("series first air date not unified into release date: %q", series.ReleaseDate)
	}

	// Equal numeric ids, same shared fields, but distinct identities.
	if movie.VoteAverage != series.VoteAverage || movie.Overview != series.Overview {
		t.Fatal("shared fields should map identically for both kinds")
	}
	if movie.Key() == series.Key() {
		t.Fatal("a movie and a series with the same id must not share an identity key")
	}
}

func TestNormalizeSeriesMissingFirstAirDateYieldsEmptyString(t *testing.T) {
	item := normalize(rawMedia{ID: 7, Name: "New Show"}, models.MediaTypeSeries)
	if item.ReleaseDate != "" {
		t.Fatalf("expected empty release date, got %q", item.ReleaseDate)
	}
}

func TestTrendingWithoutCredentialServesDemoCatalog(t *testing.T) {
	svc := newTestService("", nil)

	movies := svc.Trending(context.Background(), models.MediaTypeMovie)
	if len(movies) == 0 {
		t.Fatal("expected demo movies when no credential is configured")
	}
	for _, item := range movies {
		if !item.Demo {
			t.Fatalf("expected demo marker on %q", item.Title)
		}
		if item.Type != models.MediaTypeMovie {
			t.Fatalf("expected only movies, got %s", item.Type)
		}
	}

	series := svc.Trending(context.Background(), models.MediaTypeSeries)
	if len(series) == 0 {
		t.Fatal("expected demo series when no credential is configured")
	}
}

func TestTrendingWithCredentialFetchesUpstream(t *testing.T) {
	svc := newTestService("test-key", func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/3/trending/movie/week" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		if req.URL.Query().Get("api_key") != "test-key" {
			t.Fatal("expected api_key to be sent")
		}
		return jsonResponse(http.StatusOK, `{"results":[
			{"id":603,"title":"The Matrix","original_title":"The Matrix","release_date":"1999-03-30","vote_average":8.2,"vote_count":26000}
		]}`), nil
	})

	items := svc.Trending(context.Background(), models.MediaTypeMovie)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Demo {
		t.Fatal("upstream results must not carry the demo marker")
	}
	if items[0].Title != "The Matrix" || items[0].ID != 603 {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestListFailureReturnsEmptySequence(t *testing.T) {
	svc := newTestService("test-key", func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"status_message":"not found"}`), nil
	})

	items := svc.TopRated(context.Background(), models.MediaTypeSeries)
	if items == nil {
		t.Fatal("expected empty slice, not nil")
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result on failure, got %d items", len(items))
	}
}

func TestSearchDropsUnsupportedKinds(t *testing.T) {
	svc := newTestService("test-key", func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/3/search/multi" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"results":[
			{"id":1,"media_type":"movie","title":"A Movie","release_date":"2001-01-01"},
			{"id":2,"media_type":"person","name":"Somebody Famous"},
			{"id":3,"media_type":"tv","name":"A Show","first_air_date":"2002-02-02"}
		]}`), nil
	})

	items := svc.Search(context.Background(), "a")
	if len(items) != 2 {
		t.Fatalf("expected person result to be dropped, got %d items", len(items))
	}
	if items[0].Type != models.MediaTypeMovie || items[1].Type != models.MediaTypeSeries {
		t.Fatalf("unexpected kinds: %s, %s", items[0].Type, items[1].Type)
	}
	if items[1].Title != "A Show" {
		t.Fatalf("series name not mapped to title: %+v", items[1])
	}
}

func TestDetailsPopulatesSubResources(t *testing.T) {
	svc := newTestService("test-key", func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/3/movie/603" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		if req.URL.Query().Get("append_to_response") != "credits,videos,recommendations" {
			t.Fatal("expected sub-resources to be requested in one round trip")
		}
		return jsonResponse(http.StatusOK, `{
			"id":603,"title":"The Matrix","original_title":"The Matrix",
			"overview":"A hacker learns the truth.","release_date":"1999-03-30",
			"vote_average":8.2,"vote_count":26000,"runtime":136,
			"genres":[{"id":28,"name":"Action"}],
			"belongs_to_collection":{"id":2344,"name":"The Matrix Collection"},
			"credits":{
				"cast":[{"id":6384,"name":"Keanu Reeves","character":"Neo","order":0}],
				"crew":[{"id":9340,"name":"Lana Wachowski","job":"Director","department":"Directing"}]
			},
			"videos":{"results":[{"id":"v1","name":"Trailer","key":"abc123","site":"YouTube","type":"Trailer","official":true}]},
			"recommendations":{"results":[
				{"id":604,"media_type":"movie","title":"The Matrix Reloaded","release_date":"2003-05-15"},
				{"id":1399,"media_type":"tv","name":"Game of Thrones","first_air_date":"2011-04-17"}
			]}
		}`), nil
	})

	item := svc.Details(context.Background(), models.MediaTypeMovie, 603)
	if item == nil {
		t.Fatal("expected details, got nil")
	}
	if item.RuntimeMinutes != 136 {
		t.Fatalf("expected runtime 136, got %d", item.RuntimeMinutes)
	}
	if len(item.Genres) != 1 || item.Genres[0].Name != "Action" {
		t.Fatalf("genres not populated: %+v", item.Genres)
	}
	if item.Credits == nil || len(item.Credits.Cast) != 1 || len(item.Credits.Crew) != 1 {
		t.Fatalf("credits not populated: %+v", item.Credits)
	}
	if len(item.Videos) != 1 || item.Videos[0].Key != "abc123" {
		t.Fatalf("videos not populated: %+v", item.Videos)
	}
	if item.Collection == nil || item.Collection.ID != 2344 {
		t.Fatalf("collection reference not populated: %+v", item.Collection)
	}
	if len(item.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(item.Recommendations))
	}
	if item.Recommendations[1].Type != models.MediaTypeSeries || item.Recommendations[1].Title != "Game of Thrones" {
		t.Fatalf("series recommendation not normalized recursively: %+v", item.Recommendations[1])
	}
}

func TestDetailsWithoutCredentialUsesDemoCatalog(t *testing.T) {
	svc := newTestService("", nil)

	item := svc.Details(context.Background(), models.MediaTypeMovie, 27205)
	if item == nil {
		t.Fatal("expected demo entry for movie 27205")
	}
	if !item.Demo {
		t.Fatal("expected demo marker on placeholder entry")
	}

	if missing := svc.Details(context.Background(), models.MediaTypeMovie, 99999); missing != nil {
		t.Fatalf("expected nil for id outside the demo catalog, got %+v", missing)
	}
	// The demo series must not be reachable under the movie kind.
	if wrongKind := svc.Details(context.Background(), models.MediaTypeMovie, 1399); wrongKind != nil {
		t.Fatalf("expected kind-partitioned demo lookup, got %+v", wrongKind)
	}
}

func TestDetailsFailureReturnsNotFound(t *testing.T) {
	svc := newTestService("test-key", func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"status_message":"not found"}`), nil
	})

	if item := svc.Details(context.Background(), models.MediaTypeSeries, 42); item != nil {
		t.Fatalf("expected nil on upstream failure, got %+v", item)
	}
}

func TestPersonCreditsSortedByVotesAndTruncated(t *testing.T) {
	svc := newTestService("test-key", func(req *http.Request) (*http.Response, error) {
		body := `{"id":6384,"name":"Keanu Reeves","known_for_department":"Acting","combined_credits":{"cast":[`
		for i := 0; i < 20; i++ {
			if i > 0 {
				body += ","
			}
			// Ascending vote counts so the sort has to reverse the input.
			body += `{"id":` + itoa(i+1) + `,"media_type":"movie","title":"Film","vote_count":` + itoa((i+1)*10) + `}`
		}
		body += `]}}`
		return jsonResponse(http.StatusOK, body), nil
	})

	details := svc.PersonDetails(context.Background(), 6384)
	if details == nil {
		t.Fatal("expected person details")
	}
	if len(details.Credits) != 15 {
		t.Fatalf("expected credits truncated to 15, got %d", len(details.Credits))
	}
	if details.Credits[0].VoteCount != 200 {
		t.Fatalf("expected highest vote count first, got %d", details.Credits[0].VoteCount)
	}
	for i := 1; i < len(details.Credits); i++ {
		if details.Credits[i].VoteCount > details.Credits[i-1].VoteCount {
			t.Fatal("credits not sorted by descending vote count")
		}
	}
}

func TestCollectionPartsSortedByReleaseDate(t *testing.T) {
	svc := newTestService("test-key", func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"id":2344,"name":"The Matrix Collection","parts":[
			{"id":605,"title":"Revolutions","release_date":"2003-11-05"},
			{"id":999,"title":"Unannounced","release_date":""},
			{"id":603,"title":"The Matrix","release_date":"1999-03-30"},
			{"id":604,"title":"Reloaded","release_date":"2003-05-15"}
		]}`), nil
	})

	details := svc.CollectionDetails(context.Background(), 2344)
	if details == nil {
		t.Fatal("expected collection details")
	}
	got := make([]int64, 0, len(details.Parts))
	for _, part := range details.Parts {
		got = append(got, part.ID)
	}
	want := []int64{603, 604, 605, 999}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestReviewsFailureReturnsEmptySequence(t *testing.T) {
	svc := newTestService("test-key", func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{}`), nil
	})

	reviews := svc.Reviews(context.Background(), models.MediaTypeMovie, 603)
	if len(reviews) != 0 {
		t.Fatalf("expected empty reviews on failure, got %d", len(reviews))
	}
}

func TestReviewsTaggedRemote(t *testing.T) {
	svc := newTestService("test-key", func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/3/movie/603/reviews" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"results":[
			{"id":"r1","author":"critic","author_details":{"rating":9},"content":"Great.","created_at":"2020-01-01T00:00:00Z"},
			{"id":"r2","author":"viewer","author_details":{},"content":"Fine.","created_at":"2020-02-01T00:00:00Z"}
		]}`), nil
	})

	reviews := svc.Reviews(context.Background(), models.MediaTypeMovie, 603)
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	for _, review := range reviews {
		if review.Source != models.ReviewSourceRemote {
			t.Fatalf("expected remote source, got %s", review.Source)
		}
	}
	if reviews[0].Rating == nil || *reviews[0].Rating != 9 {
		t.Fatalf("expected rating 9 on first review, got %v", reviews[0].Rating)
	}
	if reviews[1].Rating != nil {
		t.Fatal("expected absent rating to stay nil")
	}
}

func itoa(i int) string { return strconv.Itoa(i) }
