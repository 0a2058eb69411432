package session

import (
	"context"
	"log"
	"sync"

	"filmento/models"
)

// identityStore is the slice of the identity service the session depends on.
type identityStore interface {
	Login(ctx context.Context, email string) (models.User, error)
	LoginGoogle(ctx context.Context) (models.User, error)
	Logout() error
	CurrentUser() (models.User, bool)
	Lists(userID string) models.UserLists
	ToggleWatchlist(userID string, item models.MediaItem) (models.UserLists, error)
	ToggleWatched(userID string, item models.MediaItem) (models.UserLists, error)
}

// Session is the personalization façade: exactly one per running instance,
// constructed in main and handed to every consumer. It holds the current
// user (or none) and the current lists snapshot, and silently no-ops every
// mutation while nobody is logged in — prompting for login is the view
// layer's job.
type Session struct {
	mu       sync.RWMutex
	identity identityStore
	user     *models.User
	lists    models.UserLists
}

// New builds the session and rehydrates it from the persisted current-user
// pointer, so a restart resumes the previous login.
func New(identity identityStore) *Session {
	s := &Session{
		identity: identity,
		lists:    models.EmptyUserLists(),
	}

	if user, ok := identity.CurrentUser(); ok {
		s.user = &user
		s.lists = identity.Lists(user.ID)
	}

	return s
}

// User returns the current user, if any.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Lists returns the current lists snapshot; empty sequences when nobody is
// logged in.
func (s *Session) Lists() models.UserLists {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lists
}

func (s *Session) Login(ctx context.Context, email string) (models.User, error) {
	user, err := s.identity.Login(ctx, email)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	s.user = &user
	s.lists = s.identity.Lists(user.ID)
	s.mu.Unlock()

	return user, nil
}

func (s *Session) LoginGoogle(ctx context.Context) (models.User, error) {
	user, err := s.identity.LoginGoogle(ctx)
	if err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	s.user = &user
	s.lists = s.identity.Lists(user.ID)
	s.mu.Unlock()

	return user, nil
}

func (s *Session) Logout() error {
	if err := s.identity.Logout(); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.lists = models.EmptyUserLists()
	s.mu.Unlock()

	return nil
}

// ToggleWatchlist flips watchlist membership for the item and returns the
// new snapshot. Without a current user it is a silent no-op.
func (s *Session) ToggleWatchlist(item models.MediaItem) models.UserLists {
	return s.toggle(item, s.identity.ToggleWatchlist)
}

// ToggleWatched flips watched membership (evicting the watchlist entry when
// marking watched) and returns the new snapshot. Without a current user it
// is a silent no-op.
func (s *Session) ToggleWatched(item models.MediaItem) models.UserLists {
	return s.toggle(item, s.identity.ToggleWatched)
}

func (s *Session) toggle(item models.MediaItem, op func(string, models.MediaItem) (models.UserLists, error)) models.UserLists {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return s.lists
	}

	lists, err := op(s.user.ID, item)
	if err != nil {
		log.Printf("[session] toggle failed for user %s: %v", s.user.ID, err)
		return s.lists
	}

	s.lists = lists
	return lists
}

// IsInWatchlist tests membership by the full (kind, id) key.
func (s *Session) IsInWatchlist(kind models.MediaType, id int64) bool {
	return s.contains(kind, id, false)
}

// IsWatched tests watched membership by the full (kind, id) key.
func (s *Session) IsWatched(kind models.MediaType, id int64) bool {
	return s.contains(kind, id, true)
}

func (s *Session) contains(kind models.MediaType, id int64, watched bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.lists.Watchlist
	if watched {
		items = s.lists.Watched
	}

	key := models.MediaKey{Type: kind, ID: id}
	for _, item := range items {
		if item.Key() == key {
			return true
		}
	}
	return false
}
