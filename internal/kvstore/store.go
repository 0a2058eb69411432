// Package kvstore provides the key/value persistence layer behind the
// identity and review stores. Values are JSON-encoded; writes complete
// before Set returns, so a read following a write in the same flow always
// observes it. No operation spans more than one key.
package kvstore

// Store is the persistence contract injected into the stores. Get reports
// found=false for absent keys; implementations must also treat corrupt
// values as absent rather than failing, so callers can fall back to empty
// state.
type Store interface {
	Get(key string, value any) (found bool, err error)
	Set(key string, value any) error
	Delete(key string) error
}
