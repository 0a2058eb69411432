package identity

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"filmento/internal/kvstore"
	"filmento/models"
)

var (
	ErrEmailRequired  = errors.New("email is required")
	ErrUserIDRequired = errors.New("user id is required")
)

const (
	currentUserKey = "current_user"
	listsKeyPrefix = "lists_"
)

// Service owns the current-user pointer and each user's two watch lists.
// Login never fails: the identity is derived deterministically from the
// email, so logging in again with the same address resumes the same lists.
// Logout clears only the pointer; list data stays keyed by user id.
type Service struct {
	mu    sync.Mutex
	store kvstore.Store
	delay time.Duration
}

func NewService(store kvstore.Store) *Service {
	return &Service{store: store}
}

// WithDelay makes logins simulate a network round trip. Zero by default so
// tests stay fast.
func (s *Service) WithDelay(d time.Duration) *Service {
	s.delay = d
	return s
}

// DeriveUserID is the pure id derivation: two logins with the same email
// always map to the same user id.
func DeriveUserID(email string) string {
	return base64.StdEncoding.EncodeToString([]byte(email))
}

// Login derives a stable identity from the email and persists it as the
// current user. The display name is the email's local part.
func (s *Service) Login(ctx context.Context, email string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.User{}, ErrEmailRequired
	}

	if err := s.simulateLatency(ctx, s.delay); err != nil {
		return models.User{}, err
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}

	user := models.User{
		ID:     DeriveUserID(email),
		Email:  email,
		Name:   name,
		Avatar: fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=f5c518&color=000", url.QueryEscape(name)),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(currentUserKey, user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// LoginGoogle persists the fixed demo identity standing in for a
// third-party provider login. Every call yields the same account.
func (s *Service) LoginGoogle(ctx context.Context) (models.User, error) {
	if err := s.simulateLatency(ctx, s.delay+s.delay/4); err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:     "google_user_123",
		Email:  "user@gmail.com",
		Name:   "Google User",
		Avatar: "https://lh3.googleusercontent.com/a/default-user=s96-c",
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(currentUserKey, user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Logout clears the current-user pointer. The user's lists are untouched
// and become reachable again on the next login with the same email.
func (s *Service) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(currentUserKey)
}

// CurrentUser returns the persisted current user, if any. Called once at
// startup to rehydrate the session.
func (s *Service) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user models.User
	found, err := s.store.Get(currentUserKey, &user)
	if err != nil || !found {
		return models.User{}, false
	}
	return user, true
}

// Lists returns the persisted lists for a user id, or an empty pair if this
// id has never toggled anything.
func (s *Service) Lists(userID string) models.UserLists {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listsLocked(userID)
}

// ToggleWatchlist removes the item's (type, id) key from the watchlist when
// present, appends it otherwise, persists and returns the updated lists.
func (s *Service) ToggleWatchlist(userID string, item models.MediaItem) (models.UserLists, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.UserLists{}, ErrUserIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lists := s.listsLocked(userID)

	if containsKey(lists.Watchlist, item.Key()) {
		lists.Watchlist = removeKey(lists.Watchlist, item.Key())
	} else {
		lists.Watchlist = append(lists.Watchlist, item)
	}

	if err := s.saveListsLocked(userID, lists); err != nil {
		return models.UserLists{}, err
	}
	return lists, nil
}

// ToggleWatched is the symmetric toggle on the watched list, with the added
// rule that marking an item watched evicts it from the watchlist. Unmarking
// does not restore watchlist membership.
func (s *Service) ToggleWatched(userID string, item models.MediaItem) (models.UserLists, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.UserLists{}, ErrUserIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lists := s.listsLocked(userID)

	if containsKey(lists.Watched, item.Key()) {
		lists.Watched = removeKey(lists.Watched, item.Key())
	} else {
		lists.Watchlist = removeKey(lists.Watchlist, item.Key())
		lists.Watched = append(lists.Watched, item)
	}

	if err := s.saveListsLocked(userID, lists); err != nil {
		return models.UserLists{}, err
	}
	return lists, nil
}

func (s *Service) listsLocked(userID string) models.UserLists {
	var lists models.UserLists
	found, err := s.store.Get(listsKeyPrefix+userID, &lists)
	if err != nil || !found {
		return models.EmptyUserLists()
	}
	if lists.Watchlist == nil {
		lists.Watchlist = []models.MediaItem{}
	}
	if lists.Watched == nil {
		lists.Watched = []models.MediaItem{}
	}
	return lists
}

func (s *Service) saveListsLocked(userID string, lists models.UserLists) error {
	return s.store.Set(listsKeyPrefix+userID, lists)
}

func (s *Service) simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func containsKey(items []models.MediaItem, key models.MediaKey) bool {
	for _, item := range items {
		if item.Key() == key {
			return true
		}
	}
	return false
}

func removeKey(items []models.MediaItem, key models.MediaKey) []models.MediaItem {
	kept := make([]models.MediaItem, 0, len(items))
	for _, item := range items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	return kept
}
