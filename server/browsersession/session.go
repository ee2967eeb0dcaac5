package browsersession

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/auth"
	"github.com/motopay/portal/motopay"
	"github.com/motopay/portal/session"
	"github.com/motopay/portal/tokens"
	"github.com/motopay/portal/tokens/redisstore"
)

// Session is everything the portal keeps for one browser.
type Session struct {
	ID        string
	CreatedAt time.Time

	Tokens   *tokens.Manager
	Notices  *api.Queue
	Client   *api.Client
	Auth     *auth.Service
	Services *motopay.Client
	Context  *session.Context

	lastSeen time.Time // guarded by the owning repo
}

// start restores the user from stored tokens in the background.
func (s *Session) start() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.Client.Config().Timeout)
		defer cancel()
		s.Context.Initialize(ctx)
	}()
}

// TokenBackend returns the token KV for a session ID.
type TokenBackend func(sessionID string) tokens.KV

// MemoryTokens keeps tokens in process; they are lost on restart.
func MemoryTokens(string) tokens.KV {
	return tokens.NewMemoryKV()
}

// RedisTokens keeps each session's tokens under "<prefix>:<sessionID>".
func RedisTokens(rdb redis.UniversalClient, prefix string, ttl time.Duration) TokenBackend {
	return func(sessionID string) tokens.KV {
		return redisstore.New(rdb, redisstore.Namespace(prefix, sessionID), ttl)
	}
}

// Factory assembles the per-browser object graph.
type Factory struct {
	API    api.Config
	HTTP   *http.Client // optional
	Tokens TokenBackend // defaults to MemoryTokens
}

func (f Factory) build(id string, now time.Time) *Session {
	backend := f.Tokens
	if backend == nil {
		backend = MemoryTokens
	}

	store := tokens.New(backend(id))
	notices := api.NewQueue(0)
	opts := []api.Option{api.WithNotifier(api.Notifiers{api.LogNotifier{}, notices})}
	if f.HTTP != nil {
		opts = append(opts, api.WithHTTPClient(f.HTTP))
	}
	client := api.New(f.API, store, opts...)
	authSvc := auth.NewService(client, store)

	return &Session{
		ID:        id,
		CreatedAt: now,
		Tokens:    store,
		Notices:   notices,
		Client:    client,
		Auth:      authSvc,
		Services:  motopay.New(client),
		Context:   session.New(authSvc, store),
		lastSeen:  now,
	}
}
