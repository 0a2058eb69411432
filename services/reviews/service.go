package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"filmento/internal/kvstore"
	"filmento/models"
)

var ErrContentRequired = errors.New("review content is required")

const reviewsKeyPrefix = "reviews_"

// remoteSource fetches the upstream reviews for a title. Failures there
// already yield an empty sequence, so a network outage never hides locally
// authored reviews.
type remoteSource interface {
	Reviews(ctx context.Context, kind models.MediaType, id int64) []models.Review
}

// Service owns locally authored reviews, persisted newest-first per
// (kind, id) key and merged with remote reviews at read time.
type Service struct {
	mu     sync.Mutex
	store  kvstore.Store
	remote remoteSource
}

func NewService(store kvstore.Store, remote remoteSource) *Service {
	return &Service{store: store, remote: remote}
}

// GetAll returns the merged view for one title: local reviews newest-first,
// then remote reviews in upstream order.
func (s *Service) GetAll(ctx context.Context, kind models.MediaType, id int64) []models.Review {
	remote := s.remote.Reviews(ctx, kind, id)

	s.mu.Lock()
	local := s.localLocked(kind, id)
	s.mu.Unlock()

	merged := make([]models.Review, 0, len(local)+len(remote))
	merged = append(merged, local...)
	merged = append(merged, remote...)
	return merged
}

// Add persists a new local review for the acting user and returns the
// updated local sequence. Callers re-invoke GetAll to observe it merged
// with remote reviews. The rating is expected in 1-10; constraining input
// is the view layer's job.
func (s *Service) Add(kind models.MediaType, id int64, user models.User, content string, rating float64) ([]models.Review, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}

	review := models.Review{
		ID:        "local-" + uuid.NewString(),
		Author:    user.Name,
		Content:   content,
		Rating:    &rating,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Source:    models.ReviewSourceLocal,
	}
	if user.Avatar != "" {
		avatar := user.Avatar
		review.Avatar = &avatar
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	local := s.localLocked(kind, id)
	updated := append([]models.Review{review}, local...)

	if err := s.store.Set(reviewsKey(kind, id), updated); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) localLocked(kind models.MediaType, id int64) []models.Review {
	var local []models.Review
	found, err := s.store.Get(reviewsKey(kind, id), &local)
	if err != nil || !found || local == nil {
		return []models.Review{}
	}
	return local
}

func reviewsKey(kind models.MediaType, id int64) string {
	return fmt.Sprintf("%s%s_%d", reviewsKeyPrefix, kind, id)
}
