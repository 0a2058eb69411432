package models

// User models a Filmento profile. IDs are derived deterministically from the
// email, so logging in again with the same address resumes the same lists.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// UserLists holds the two watch-state sequences for one user. A (type, id)
// key appears at most once per sequence, and never in both: marking an item
// watched evicts it from the watchlist.
type UserLists struct {
	Watchlist []MediaItem `json:"watchlist"`
	Watched   []MediaItem `json:"watched"`
}

// EmptyUserLists returns a fresh pair of empty sequences, the state every
// user id starts from and the snapshot served when nobody is logged in.
func EmptyUserLists() UserLists {
	return UserLists{Watchlist: []MediaItem{}, Watched: []MediaItem{}}
}
