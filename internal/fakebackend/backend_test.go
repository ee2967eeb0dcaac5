package fakebackend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/internal/fakebackend"
	"github.com/motopay/portal/motopay"
	"github.com/motopay/portal/tokens"
	"github.com/motopay/portal/users"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	backend *fakebackend.Backend
	client  *api.Client
	store   *tokens.Manager
	agent   users.User
	admin   users.User
}

func newTestFixture(t *testing.T, opts ...fakebackend.Option) *testFixture {
	t.Helper()

	b := fakebackend.New(opts...)
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	agent, err := b.AddUser(users.User{Email: "agent@motopay.ng", FirstName: "Ada", Role: users.RoleAgent}, "agent-pass")
	require.NoError(t, err)
	admin, err := b.AddUser(users.User{Email: "admin@motopay.ng", Role: users.RoleAdmin}, "admin-pass")
	require.NoError(t, err)

	store := tokens.New(tokens.NewMemoryKV())
	client := api.New(api.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, store,
		api.WithNotifier(api.NewQueue(0)))

	return &testFixture{backend: b, client: client, store: store, agent: agent, admin: admin}
}

func (f *testFixture) login(t *testing.T, email, password string) {
	t.Helper()
	env, err := f.client.Post(context.Background(), api.EndpointAuthLogin, map[string]string{
		"email": email, "password": password,
	})
	require.NoError(t, err)

	var data struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, env.Decode(&data))
	f.store.SetTokens(data.AccessToken, data.RefreshToken)
}

func TestBackend_LoginThenMe(t *testing.T) {
	f := newTestFixture(t)
	f.login(t, "agent@motopay.ng", "agent-pass")

	resp, err := api.Typed[users.User](f.client.Get(context.Background(), api.EndpointAuthMe, nil))
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Equal(t, f.agent.ID, resp.Data.ID)
	require.Equal(t, users.RoleAgent, resp.Data.Role)
	require.Equal(t, 1, f.backend.Calls(api.EndpointAuthMe))
}

func TestBackend_LoginRejectsBadPassword(t *testing.T) {
	f := newTestFixture(t)

	_, err := f.client.Post(context.Background(), api.EndpointAuthLogin, map[string]string{
		"email": "agent@motopay.ng", "password": "wrong",
	})
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestBackend_MeWithoutTokenIsUnauthorized(t *testing.T) {
	f := newTestFixture(t)

	_, err := f.client.Get(context.Background(), api.EndpointAuthMe, nil)
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestBackend_LogoutRevokesAccessToken(t *testing.T) {
	f := newTestFixture(t)
	f.login(t, "agent@motopay.ng", "agent-pass")
	access, _ := f.store.AccessToken()
	refresh, _ := f.store.RefreshToken()

	_, err := f.client.Post(context.Background(), api.EndpointAuthLogout, nil)
	require.NoError(t, err)

	f.store.SetTokens(access, refresh)
	_, err = f.client.Get(context.Background(), api.EndpointAuthMe, nil)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	_, err = f.client.Post(context.Background(), api.EndpointAuthRefreshToken, map[string]string{"refreshToken": refresh})
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestBackend_RefreshIssuesNewAccessToken(t *testing.T) {
	f := newTestFixture(t)
	f.login(t, "admin@motopay.ng", "admin-pass")
	refresh, _ := f.store.RefreshToken()

	env, err := f.client.Post(context.Background(), api.EndpointAuthRefreshToken, map[string]string{"refreshToken": refresh})
	require.NoError(t, err)

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, env.Decode(&data))
	require.NotEmpty(t, data.AccessToken)
}

func TestBackend_ExpiredTokenIsRejected(t *testing.T) {
	start := time.Now()
	var skew atomic.Int64
	clock := func() time.Time { return start.Add(time.Duration(skew.Load())) }
	f := newTestFixture(t, fakebackend.WithNowTime(clock), fakebackend.WithAccessTTL(time.Minute))
	f.login(t, "agent@motopay.ng", "agent-pass")

	skew.Store(int64(2 * time.Minute))
	_, err := f.client.Get(context.Background(), api.EndpointAuthMe, nil)
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestBackend_RoleGates(t *testing.T) {
	f := newTestFixture(t)
	f.login(t, "agent@motopay.ng", "agent-pass")

	_, err := f.client.Get(context.Background(), api.EndpointAgentDashboard, nil)
	require.NoError(t, err)

	_, err = f.client.Get(context.Background(), api.EndpointAdminMetrics, nil)
	require.ErrorIs(t, err, api.ErrForbidden)
}

func TestBackend_RegisterCreatesGuest(t *testing.T) {
	f := newTestFixture(t)

	resp, err := api.Typed[users.User](f.client.Post(context.Background(), api.EndpointAuthRegister, map[string]string{
		"email": "new@motopay.ng", "password": "secret1", "fullName": "New Person",
	}))
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Equal(t, users.RoleGuest, resp.Data.Role)
	require.Equal(t, "New", resp.Data.FirstName)
	require.Equal(t, "Person", resp.Data.LastName)

	_, err = f.client.Post(context.Background(), api.EndpointAuthRegister, map[string]string{
		"email": "new@motopay.ng", "password": "secret1", "fullName": "New Person",
	})
	require.ErrorIs(t, err, api.ErrValidation)
}

func TestBackend_DeactivatedAccountCannotLogin(t *testing.T) {
	f := newTestFixture(t)
	f.backend.Deactivate(f.agent.ID)

	_, err := f.client.Post(context.Background(), api.EndpointAuthLogin, map[string]string{
		"email": "agent@motopay.ng", "password": "agent-pass",
	})
	require.ErrorIs(t, err, api.ErrForbidden)
}

func TestBackend_AddUserRejectsDuplicateEmail(t *testing.T) {
	b := fakebackend.New()
	_, err := b.AddUser(users.User{Email: "x@motopay.ng"}, "pw")
	require.NoError(t, err)

	_, err = b.AddUser(users.User{Email: "X@motopay.ng"}, "pw")
	require.ErrorIs(t, err, fakebackend.ErrEmailTaken)
}

func TestBackend_UnknownVersionIsNotFound(t *testing.T) {
	b := fakebackend.New(fakebackend.WithVersion("v2"))
	rec := httptest.NewRecorder()
	b.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	b.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v2/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBackend_VehicleLookupIsPublic(t *testing.T) {
	f := newTestFixture(t)
	v := f.backend.AddVehicle(motopay.Vehicle{PlateNumber: "LAG-123-AA"})

	resp, err := api.Typed[motopay.Vehicle](f.client.Post(context.Background(), api.EndpointVehicleLookup,
		motopay.VehicleLookupRequest{Identifier: "lag-123-aa", Type: motopay.LookupPlate}))
	require.NoError(t, err)
	require.Equal(t, v.ID, resp.Data.ID)

	_, err = f.client.Post(context.Background(), api.EndpointVehicleLookup, motopay.VehicleLookupRequest{})
	require.ErrorIs(t, err, api.ErrValidation)
}

func TestBackend_ExceptionsFilterByStatus(t *testing.T) {
	f := newTestFixture(t)
	f.backend.AddException(motopay.Exception{Type: "PAYMENT", Description: "double charge"})
	f.backend.AddException(motopay.Exception{Type: "PAYMENT", Description: "refunded", Status: motopay.ExceptionResolved})
	f.login(t, "admin@motopay.ng", "admin-pass")

	resp, err := motopay.New(f.client).Exceptions.ListExceptions(context.Background(), motopay.ExceptionFilters{Status: motopay.ExceptionOpen})
	require.NoError(t, err)
	require.Len(t, resp.Data.Exceptions, 1)
	require.Equal(t, "double charge", resp.Data.Exceptions[0].Description)
	require.Equal(t, 1, resp.Data.Total)
}

func TestBackend_PricingNeedsSuperAdminToChange(t *testing.T) {
	f := newTestFixture(t)
	p := f.backend.AddPricing(motopay.PricingConfig{Name: "Vehicle License", Price: 3000, IsActive: true})
	_, err := f.backend.AddUser(users.User{Email: "super@motopay.ng", Role: users.RoleSuperAdmin}, "super-pass")
	require.NoError(t, err)
	svc := motopay.New(f.client).Pricing
	price := 3500.0

	f.login(t, "admin@motopay.ng", "admin-pass")
	list, err := svc.GetPricing(context.Background())
	require.NoError(t, err)
	require.Len(t, *list.Data, 1)
	_, err = svc.UpdatePricing(context.Background(), p.ID, motopay.UpdatePricingRequest{Price: &price})
	require.ErrorIs(t, err, api.ErrForbidden)

	f.login(t, "super@motopay.ng", "super-pass")
	updated, err := svc.UpdatePricing(context.Background(), p.ID, motopay.UpdatePricingRequest{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 3500.0, updated.Data.Price)
	require.Equal(t, "Vehicle License", updated.Data.Name)

	toggled, err := svc.TogglePricingStatus(context.Background(), p.ID, false)
	require.NoError(t, err)
	require.False(t, toggled.Data.IsActive)

	_, err = svc.UpdatePricing(context.Background(), "missing", motopay.UpdatePricingRequest{Price: &price})
	require.ErrorIs(t, err, api.ErrNotFound)
}
