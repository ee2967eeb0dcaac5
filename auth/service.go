// Package auth wraps the backend's authentication endpoints and keeps the
// token store in step with them.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/tokens"
	"github.com/motopay/portal/users"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User         users.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

// RegisterRequest is what the registration form collects. The backend wants
// a single full name, see registerBody.
type RegisterRequest struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}

type registerBody struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Service talks to the auth endpoints through the gateway.
type Service struct {
	api    api.Requester
	tokens tokens.Store
}

func NewService(requester api.Requester, store tokens.Store) *Service {
	return &Service{api: requester, tokens: store}
}

// Login exchanges credentials for a token pair and stores it on success.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*api.Response[LoginResponse], error) {
	resp, err := api.Typed[LoginResponse](s.api.Post(ctx, api.EndpointAuthLogin, req))
	if err != nil {
		return nil, err
	}
	if resp.OK() {
		s.tokens.SetTokens(resp.Data.AccessToken, resp.Data.RefreshToken)
	}
	return resp, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*api.Response[users.User], error) {
	body := registerBody{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    strings.TrimSpace(req.FirstName + " " + req.LastName),
		PhoneNumber: req.PhoneNumber,
	}
	return api.Typed[users.User](s.api.Post(ctx, api.EndpointAuthRegister, body))
}

// CurrentUser asks the backend who the stored token belongs to.
func (s *Service) CurrentUser(ctx context.Context) (*api.Response[users.User], error) {
	return api.Typed[users.User](s.api.Get(ctx, api.EndpointAuthMe, nil))
}

// RefreshToken trades the stored refresh token for a new access token.
// Nothing calls this automatically.
func (s *Service) RefreshToken(ctx context.Context) (*api.Response[RefreshResponse], error) {
	refreshToken, ok := s.tokens.RefreshToken()
	if !ok {
		return nil, ErrNoRefreshToken
	}

	resp, err := api.Typed[RefreshResponse](s.api.Post(ctx, api.EndpointAuthRefreshToken, map[string]string{
		"refreshToken": refreshToken,
	}))
	if err != nil {
		return nil, err
	}
	if resp.OK() && resp.Data.AccessToken != "" {
		s.tokens.SetAccessToken(resp.Data.AccessToken)
	}
	return resp, nil
}

// Logout tells the backend to drop the session. Local tokens are cleared
// whatever the backend answers.
func (s *Service) Logout(ctx context.Context) error {
	defer s.tokens.Clear()

	if _, err := s.api.Post(ctx, api.EndpointAuthLogout, nil); err != nil {
		return fmt.Errorf("[auth Logout] %w", err)
	}
	return nil
}

// IsAuthenticated reports whether an access token is stored. It says nothing
// about whether the backend still accepts it.
func (s *Service) IsAuthenticated() bool {
	_, ok := s.tokens.AccessToken()
	return ok
}
