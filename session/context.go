// Package session holds who is logged in for one browser (or one CLI run)
// and whether that is still being worked out.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/auth"
	"github.com/motopay/portal/tokens"
	"github.com/motopay/portal/users"
)

// Authenticator is the part of auth.Service a Context needs.
type Authenticator interface {
	Login(ctx context.Context, req auth.LoginRequest) (*api.Response[auth.LoginResponse], error)
	CurrentUser(ctx context.Context) (*api.Response[users.User], error)
	Logout(ctx context.Context) error
}

var _ Authenticator = (*auth.Service)(nil)

// Context is the authenticated session state. It starts out loading and
// stays that way until Initialize returns.
type Context struct {
	auth   Authenticator
	tokens tokens.Store

	mu      sync.RWMutex
	user    *users.User
	loading bool
	gen     uint64 // bumped on every user change

	initOnce sync.Once
	ready    chan struct{}
}

func New(authn Authenticator, store tokens.Store) *Context {
	return &Context{
		auth:    authn,
		tokens:  store,
		loading: true,
		ready:   make(chan struct{}),
	}
}

// Initialize restores the user from a stored token. Only the first call does
// anything. Without a token no request is made. A token the backend does not
// accept is cleared and the session carries on as a guest.
func (c *Context) Initialize(ctx context.Context) {
	c.initOnce.Do(func() {
		defer c.finishLoading()

		if _, ok := c.tokens.AccessToken(); !ok {
			return
		}

		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		resp, err := c.auth.CurrentUser(ctx)
		if err != nil || !resp.OK() {
			log.Info().Err(err).Msg("stored session could not be restored, continuing as guest")
			c.mu.Lock()
			if c.gen == gen {
				c.tokens.Clear()
			}
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen {
			c.setUserLocked(resp.Data)
		}
	})
}

func (c *Context) finishLoading() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
	close(c.ready)
}

// Login authenticates, then loads the identity the new token belongs to.
// A rejected login comes back as the gateway's error and leaves the state
// untouched.
func (c *Context) Login(ctx context.Context, email, password string) (*api.Response[auth.LoginResponse], error) {
	resp, err := c.auth.Login(ctx, auth.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return resp, nil
	}

	me, err := c.auth.CurrentUser(ctx)
	if err != nil {
		return resp, fmt.Errorf("[session Login] failed to load user: %w", err)
	}
	if !me.OK() {
		return resp, fmt.Errorf("[session Login] %w", api.ErrNoData)
	}

	c.mu.Lock()
	c.setUserLocked(me.Data)
	c.mu.Unlock()
	return resp, nil
}

// Logout ends the session locally whatever the backend says. The backend
// error, if any, is returned for logging only.
func (c *Context) Logout(ctx context.Context) error {
	err := c.auth.Logout(ctx)

	c.mu.Lock()
	c.setUserLocked(nil)
	c.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("backend logout failed, local session cleared")
	}
	return err
}

// RefreshUser reloads the identity. It does nothing without a token.
func (c *Context) RefreshUser(ctx context.Context) error {
	if _, ok := c.tokens.AccessToken(); !ok {
		return nil
	}

	resp, err := c.auth.CurrentUser(ctx)
	if err != nil {
		if _, ok := c.tokens.AccessToken(); !ok {
			c.mu.Lock()
			c.setUserLocked(nil)
			c.mu.Unlock()
		}
		return fmt.Errorf("[session RefreshUser] %w", err)
	}
	if resp.OK() {
		c.mu.Lock()
		c.setUserLocked(resp.Data)
		c.mu.Unlock()
	}
	return nil
}

// Sync drops the user once the gateway has cleared the tokens, which it does
// after any rejected call. It makes no network call and reports whether the
// session is still authenticated.
func (c *Context) Sync() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tokens.AccessToken(); !ok && c.user != nil {
		c.setUserLocked(nil)
	}
	return c.user != nil
}

func (c *Context) setUserLocked(u *users.User) {
	if u != nil {
		cp := *u
		u = &cp
	}
	c.user = u
	c.gen++
}

// User returns a copy of the current user, or nil for a guest.
func (c *Context) User() *users.User {
	u, _ := c.Snapshot()
	return u
}

// Snapshot returns the user and the loading flag as of one instant. A user
// whose tokens are gone is reported as nil.
func (c *Context) Snapshot() (*users.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.authenticatedLocked() {
		return nil, c.loading
	}
	cp := *c.user
	return &cp, c.loading
}

func (c *Context) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// IsAuthenticated holds when a token is stored and its user is loaded.
func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authenticatedLocked()
}

func (c *Context) authenticatedLocked() bool {
	if c.user == nil {
		return false
	}
	_, ok := c.tokens.AccessToken()
	return ok
}

// Ready is closed once Initialize has finished.
func (c *Context) Ready() <-chan struct{} {
	return c.ready
}

// Wait blocks until Initialize has finished or ctx is done.
func (c *Context) Wait(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
