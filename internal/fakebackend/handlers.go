package fakebackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/motopay"
	"github.com/motopay/portal/users"
)

const maxBodyBytes = 1 << 20

func (b *Backend) routes() {
	b.mux = http.NewServeMux()
	b.handle("GET", api.EndpointHealth, b.health)

	b.handle("POST", api.EndpointAuthLogin, b.login)
	b.handle("POST", api.EndpointAuthRegister, b.register)
	b.handle("POST", api.EndpointAuthRefreshToken, b.refreshToken)
	b.handle("GET", api.EndpointAuthMe, b.requireAuth(b.me))
	b.handle("POST", api.EndpointAuthLogout, b.requireAuth(b.logout))

	b.handle("POST", api.EndpointVehicleLookup, public(b.lookupVehicle))
	b.handle("GET", api.EndpointVehicle("{id}"), b.requireAuth(b.getVehicle))
	b.handle("GET", api.EndpointVehicleCompliance("{id}"), public(b.vehicleCompliance))

	b.handle("GET", api.EndpointAdminMetrics, b.requireAuth(b.requireRole(b.adminMetrics, users.RoleAdmin, users.RoleSuperAdmin)))
	b.handle("GET", api.EndpointAgentDashboard, b.requireAuth(b.requireRole(b.agentDashboard, users.RoleAgent)))

	b.handle("GET", api.EndpointExceptions, b.requireAuth(b.requireRole(b.listExceptions, users.RoleAdmin, users.RoleSuperAdmin)))
	b.handle("GET", api.EndpointAdminPricing, b.requireAuth(b.requireRole(b.listPricing, users.RoleAdmin, users.RoleSuperAdmin)))
	b.handle("PUT", api.EndpointPricing("{id}"), b.requireAuth(b.requireRole(b.updatePricing, users.RoleSuperAdmin)))
	b.handle("PATCH", api.EndpointPricingStatus("{id}"), b.requireAuth(b.requireRole(b.togglePricing, users.RoleSuperAdmin)))
}

type authedHandler func(w http.ResponseWriter, r *http.Request, acc *account, claims *accessClaims)

func (b *Backend) handle(method, endpoint string, h http.HandlerFunc) {
	b.mux.HandleFunc(method+" /api/"+b.version+"/"+endpoint, func(w http.ResponseWriter, r *http.Request) {
		b.count(endpoint)
		h(w, r)
	})
}

func (b *Backend) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, claims, err := b.authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, acc, claims)
	}
}

// public serves an endpoint that anyone may call, as the vehicle lookup is.
func public(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r, nil, nil)
	}
}

func (b *Backend) requireRole(next authedHandler, roles ...users.RoleType) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, acc *account, claims *accessClaims) {
		if !acc.user.HasRole(roles...) {
			writeError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		next(w, r, acc, claims)
	}
}

func (b *Backend) authenticate(r *http.Request) (*account, *accessClaims, error) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return nil, nil, ErrInvalidToken
	}
	claims, err := b.signer.verify(raw)
	if err != nil {
		return nil, nil, errors.Join(ErrInvalidToken, err)
	}
	if b.revoked.isRevoked(claims.ID) {
		return nil, nil, ErrInvalidToken
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.byID[claims.Subject]
	if !ok {
		return nil, nil, ErrInvalidToken
	}
	if !acc.user.IsActive {
		return nil, nil, ErrAccountInactive
	}
	return acc, claims, nil
}

func (b *Backend) health(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, "OK", map[string]string{"status": "ok"})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeValidation(w, map[string][]string{"email": {"required"}, "password": {"required"}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[strings.ToLower(req.Email)]
	if !ok || !checkPassword(acc.passwordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !acc.user.IsActive {
		writeError(w, http.StatusForbidden, "Account is disabled")
		return
	}

	access, refresh, err := b.issue(acc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	writeData(w, http.StatusOK, "Login successful", map[string]any{
		"user":         acc.user,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		FullName    string `json:"fullName"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeValidation(w, map[string][]string{"fullName": {"required"}})
		return
	}

	first, last, _ := strings.Cut(req.FullName, " ")
	u, err := b.AddUser(users.User{
		Email:       req.Email,
		FirstName:   first,
		LastName:    last,
		PhoneNumber: req.PhoneNumber,
		Role:        users.RoleGuest,
	}, req.Password)
	if errors.Is(err, ErrEmailTaken) {
		writeValidation(w, map[string][]string{"email": {"already registered"}})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	writeData(w, http.StatusCreated, "Registration successful", u)
}

func (b *Backend) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.byID[b.refresh[req.RefreshToken]]
	if !ok || !acc.user.IsActive {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	access, _, err := b.signer.sign(acc.user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	writeData(w, http.StatusOK, "Token refreshed", map[string]string{"accessToken": access})
}

func (b *Backend) me(w http.ResponseWriter, _ *http.Request, acc *account, _ *accessClaims) {
	b.mu.Lock()
	u := acc.user
	b.mu.Unlock()
	writeData(w, http.StatusOK, "", u)
}

func (b *Backend) logout(w http.ResponseWriter, _ *http.Request, acc *account, claims *accessClaims) {
	b.revoked.add(claims.ID, claims.ExpiresAt.Time)
	b.revoked.cleanup(b.signer.now())
	b.RevokeUser(acc.user.ID)
	writeData(w, http.StatusOK, "Logged out successfully", nil)
}

func (b *Backend) lookupVehicle(w http.ResponseWriter, r *http.Request, _ *account, _ *accessClaims) {
	var req motopay.VehicleLookupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Identifier == "" {
		writeValidation(w, map[string][]string{"identifier": {"required"}})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, v := range b.vehicles {
		if matchesLookup(v, req) {
			writeData(w, http.StatusOK, "Vehicle found", v)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Vehicle not found")
}

func matchesLookup(v motopay.Vehicle, req motopay.VehicleLookupRequest) bool {
	id := strings.TrimSpace(req.Identifier)
	switch req.Type {
	case motopay.LookupPlate:
		return strings.EqualFold(v.PlateNumber, id)
	case motopay.LookupVIN:
		return strings.EqualFold(v.VIN, id)
	case motopay.LookupTIN:
		return v.TIN == id
	default:
		return strings.EqualFold(v.PlateNumber, id) || strings.EqualFold(v.VIN, id) || v.TIN == id
	}
}

func (b *Backend) getVehicle(w http.ResponseWriter, r *http.Request, _ *account, _ *accessClaims) {
	b.mu.Lock()
	v, ok := b.vehicles[r.PathValue("id")]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	writeData(w, http.StatusOK, "", v)
}

func (b *Backend) adminMetrics(w http.ResponseWriter, _ *http.Request, _ *account, _ *accessClaims) {
	b.mu.Lock()
	agents := 0
	for _, acc := range b.accounts {
		if acc.user.Role == users.RoleAgent && acc.user.IsActive {
			agents++
		}
	}
	b.mu.Unlock()
	writeData(w, http.StatusOK, "", motopay.DashboardMetrics{ActiveAgents: agents, SuccessRate: 100})
}

func (b *Backend) agentDashboard(w http.ResponseWriter, _ *http.Request, _ *account, _ *accessClaims) {
	writeData(w, http.StatusOK, "", motopay.AgentDashboard{})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	body := map[string]any{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	writeJSON(w, status, body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success":    false,
		"message":    message,
		"statusCode": status,
	})
}

func writeValidation(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"success":    false,
		"message":    "Validation failed",
		"statusCode": http.StatusUnprocessableEntity,
		"errors":     fields,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
