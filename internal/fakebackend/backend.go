// Package fakebackend is an in-process MotoPay backend. It speaks the same
// envelope protocol as the real one for the endpoints the portal uses, so
// the portal, the CLI and the tests can run without the real service.
package fakebackend

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/motopay/portal/motopay"
	"github.com/motopay/portal/users"
)

const (
	DefaultVersion   = "v1"
	DefaultAccessTTL = 15 * time.Minute
)

type account struct {
	user         users.User
	passwordHash []byte
}

// Backend is safe for concurrent use.
type Backend struct {
	mu         sync.Mutex
	accounts   map[string]*account // by lower-cased email
	byID       map[string]*account
	refresh    map[string]string // refresh token -> user ID
	vehicles   map[string]motopay.Vehicle
	compliance map[string]complianceBuckets
	exceptions []motopay.Exception
	pricing    []motopay.PricingConfig
	calls      map[string]int

	signer  *hmacSigner
	revoked *revokedTokens
	version string
	mux     *http.ServeMux
}

type Option func(*Backend)

func WithSecret(secret string) Option {
	return func(b *Backend) { b.signer.secret = []byte(secret) }
}

func WithAccessTTL(ttl time.Duration) Option {
	return func(b *Backend) { b.signer.ttl = ttl }
}

func WithVersion(version string) Option {
	return func(b *Backend) { b.version = version }
}

// WithNowTime overrides the clock used for token issue and expiry.
func WithNowTime(nowFunc func() time.Time) Option {
	return func(b *Backend) { b.signer.now = nowFunc }
}

func New(opts ...Option) *Backend {
	b := &Backend{
		accounts:   make(map[string]*account),
		byID:       make(map[string]*account),
		refresh:    make(map[string]string),
		vehicles:   make(map[string]motopay.Vehicle),
		compliance: make(map[string]complianceBuckets),
		calls:      make(map[string]int),
		signer: &hmacSigner{
			secret: []byte(uuid.NewString()),
			issuer: "motopay-fakebackend",
			ttl:    DefaultAccessTTL,
			now:    time.Now,
		},
		revoked: newRevokedTokens(),
		version: DefaultVersion,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.routes()
	return b
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mux.ServeHTTP(w, r)
}

// AddUser registers an account and returns the stored user. An empty ID is
// filled with a fresh UUID.
func (b *Backend) AddUser(u users.User, password string) (users.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return users.User{}, fmt.Errorf("[Backend AddUser] failed to hash password: %w", err)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = b.signer.now().UTC()
	}
	u.IsActive = true

	b.mu.Lock()
	defer b.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, exists := b.accounts[key]; exists {
		return users.User{}, fmt.Errorf("[Backend AddUser] %s: %w", u.Email, ErrEmailTaken)
	}
	acc := &account{user: u, passwordHash: hash}
	b.accounts[key] = acc
	b.byID[u.ID] = acc
	return u, nil
}

// AddVehicle stores v for lookup by plate, VIN or TIN.
func (b *Backend) AddVehicle(v motopay.Vehicle) motopay.Vehicle {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vehicles[v.ID] = v
	return v
}

// Calls returns how many requests reached endpoint, e.g. "auth/me".
func (b *Backend) Calls(endpoint string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[endpoint]
}

// RevokeUser invalidates every refresh token the user holds. Access tokens
// already issued keep working until they expire, as with the real backend.
func (b *Backend) RevokeUser(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for tok, id := range b.refresh {
		if id == userID {
			delete(b.refresh, tok)
		}
	}
}

// Deactivate makes the account reject logins and token checks.
func (b *Backend) Deactivate(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc, ok := b.byID[userID]; ok {
		acc.user.IsActive = false
	}
}

func (b *Backend) count(endpoint string) {
	b.mu.Lock()
	b.calls[endpoint]++
	b.mu.Unlock()
}

// issue creates an access/refresh pair for acc. Caller holds b.mu.
func (b *Backend) issue(acc *account) (string, string, error) {
	access, _, err := b.signer.sign(acc.user)
	if err != nil {
		return "", "", err
	}
	refresh := uuid.NewString()
	b.refresh[refresh] = acc.user.ID
	return access, refresh, nil
}
