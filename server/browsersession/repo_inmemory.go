package browsersession

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/motopay/portal/internal/errors"
)

type InMemoryRepo struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  Factory
	maxIdle  time.Duration
	now      func() time.Time
}

var _ Repo = (*InMemoryRepo)(nil)

type Option func(*InMemoryRepo)

func WithNowTime(nowFunc func() time.Time) Option {
	return func(r *InMemoryRepo) { r.now = nowFunc }
}

func NewInMemoryRepo(factory Factory, maxIdle time.Duration, opts ...Option) *InMemoryRepo {
	r := &InMemoryRepo{
		sessions: make(map[string]*Session),
		factory:  factory,
		maxIdle:  maxIdle,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *InMemoryRepo) GetOrCreate(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if sess, ok := r.sessions[id]; ok && !r.idle(sess, now) {
		sess.lastSeen = now
		return sess, false
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	return r.createLocked(id, now), true
}

func (r *InMemoryRepo) Create() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(uuid.NewString(), r.now())
}

func (r *InMemoryRepo) createLocked(id string, now time.Time) *Session {
	sess := r.factory.build(id, now)
	r.sessions[id] = sess
	sess.start()
	return sess
}

func (r *InMemoryRepo) Get(id string) (*Session, error) {
	if id == "" {
		return nil, errors.Wrapf(errors.ErrMissingField, "[InMemoryRepo Get] session id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrSessionNotFound, "[InMemoryRepo Get] %s", id)
	}
	now := r.now()
	if r.idle(sess, now) {
		delete(r.sessions, id)
		return nil, errors.Wrapf(errors.ErrSessionExpired, "[InMemoryRepo Get] %s", id)
	}
	sess.lastSeen = now
	return sess, nil
}

// Delete removes the entry and its tokens. Unknown ids are not an error.
func (r *InMemoryRepo) Delete(id string) error {
	if id == "" {
		return errors.Wrapf(errors.ErrMissingField, "[InMemoryRepo Delete] session id")
	}

	r.mu.Lock()
	sess, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		sess.Tokens.Clear()
	}
	return nil
}

// Sweep leaves stored tokens alone so a redis backed session can be picked
// up again by the same cookie.
func (r *InMemoryRepo) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, sess := range r.sessions {
		if r.idle(sess, now) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Debug().Int("removed", removed).Int("remaining", len(r.sessions)).Msg("swept idle browser sessions")
	}
	return removed
}

func (r *InMemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *InMemoryRepo) idle(sess *Session, now time.Time) bool {
	return r.maxIdle > 0 && now.Sub(sess.lastSeen) > r.maxIdle
}
