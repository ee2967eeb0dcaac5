package users

import (
	"strings"
	"time"
)

// RoleType is the portal role assigned to a user by the backend
type RoleType string

const (
	RoleAgent      RoleType = "AGENT"       // Field agent renewing on behalf of vehicle owners
	RoleAdmin      RoleType = "ADMIN"       // Back-office administrator
	RoleSuperAdmin RoleType = "SUPER_ADMIN" // Administrator with pricing authority
	RoleGuest      RoleType = "GUEST"       // Self-registered member of the public
)

// Home paths for each role family
const (
	AgentHome  = "/agent"
	AdminHome  = "/admin"
	PublicHome = "/"
)

// User is the identity returned by the backend's "who am I" endpoint.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Role        RoleType  `json:"role"`
	IsActive    bool      `json:"isActive,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// DisplayName returns "First Last" when known, otherwise the email
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// HasRole reports whether the user holds any of roles.
func (u *User) HasRole(roles ...RoleType) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin returns true for ADMIN and SUPER_ADMIN
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin, RoleSuperAdmin)
}

// HomePath is where a user of role lands when they are sent "home".
func HomePath(role RoleType) string {
	switch role {
	case RoleAgent:
		return AgentHome
	case RoleAdmin, RoleSuperAdmin:
		return AdminHome
	default:
		return PublicHome
	}
}
