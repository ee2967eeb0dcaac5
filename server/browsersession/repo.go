// Package browsersession keeps one session per browser, keyed by the
// session cookie.
package browsersession

import "time"

type Repo interface {
	// GetOrCreate returns the session for id, creating it when id is
	// unknown. An empty or malformed id gets a fresh random one. created
	// reports whether a new entry was made.
	GetOrCreate(id string) (sess *Session, created bool)
	// Create always makes a new session with a fresh id.
	Create() *Session
	Get(id string) (*Session, error)
	Delete(id string) error
	// Sweep drops sessions idle for longer than the max idle time and
	// returns how many went.
	Sweep(now time.Time) int
	Len() int
}
