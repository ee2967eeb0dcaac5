// Package tokens persists the access/refresh token pair of one portal user.
//
// Tokens are opaque strings. The store never inspects, validates or expires them;
// a token is considered valid until the backend rejects it.
package tokens

// Storage keys. They match the keys the browser client used so a store
// exported from one can be read by the other.
const (
	AccessTokenKey  = "motopay_access_token"
	RefreshTokenKey = "motopay_refresh_token"
)

// KV is the durable key-value storage a token store writes through.
// Implementations swallow their own failures: a failed read reports absent
// and a failed write is a no-op.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(keys ...string)
}

// Store is the token API used by the gateway and the session context.
type Store interface {
	AccessToken() (string, bool)
	SetAccessToken(token string)
	RefreshToken() (string, bool)
	SetTokens(accessToken, refreshToken string)
	Clear()
}

var _ Store = (*Manager)(nil)

// Manager implements Store over a KV backend.
type Manager struct {
	kv KV
}

// New returns a token manager writing to kv. A nil kv gets an in-memory backend.
func New(kv KV) *Manager {
	if kv == nil {
		kv = NewMemoryKV()
	}
	return &Manager{kv: kv}
}

func (m *Manager) AccessToken() (string, bool) {
	return m.get(AccessTokenKey)
}

func (m *Manager) SetAccessToken(token string) {
	m.kv.Set(AccessTokenKey, token)
}

func (m *Manager) RefreshToken() (string, bool) {
	return m.get(RefreshTokenKey)
}

// SetTokens replaces both tokens.
func (m *Manager) SetTokens(accessToken, refreshToken string) {
	m.kv.Set(AccessTokenKey, accessToken)
	m.kv.Set(RefreshTokenKey, refreshToken)
}

// Clear removes both tokens.
func (m *Manager) Clear() {
	m.kv.Delete(AccessTokenKey, RefreshTokenKey)
}

// an empty value is the same as no value
func (m *Manager) get(key string) (string, bool) {
	v, ok := m.kv.Get(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
