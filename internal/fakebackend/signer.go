package fakebackend

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/motopay/portal/users"
)

// accessClaims are carried by every access token the backend issues.
type accessClaims struct {
	jwt.RegisteredClaims
	Email string         `json:"email"`
	Role  users.RoleType `json:"role"`
}

// hmacSigner issues and checks HS256 access tokens.
type hmacSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func (h *hmacSigner) sign(u users.User) (string, accessClaims, error) {
	now := h.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    h.issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.ttl)),
		},
		Email: u.Email,
		Role:  u.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", accessClaims{}, fmt.Errorf("[hmacSigner sign] failed to sign token: %w", err)
	}
	return signed, claims, nil
}

func (h *hmacSigner) verify(raw string) (*accessClaims, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, h.verificationKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(h.issuer),
		jwt.WithTimeFunc(h.now),
	)
	if err != nil {
		return nil, fmt.Errorf("[hmacSigner verify] %w", err)
	}
	return claims, nil
}

func (h *hmacSigner) verificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}
