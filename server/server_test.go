package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/auth"
	"github.com/motopay/portal/internal/config"
	"github.com/motopay/portal/internal/fakebackend"
	"github.com/motopay/portal/motopay"
	"github.com/motopay/portal/server"
	"github.com/motopay/portal/server/browsersession"
	"github.com/motopay/portal/tokens"
	"github.com/motopay/portal/users"
)

type testConfig struct {
	config.EnvVars
	config.API
	config.Cors
	config.Session
	guardWait time.Duration
}

func (c testConfig) GetGuardWait() time.Duration { return c.guardWait }

type testFixture struct {
	backend    *fakebackend.Backend
	backendURL string
	portal     *httptest.Server
	repo       *browsersession.InMemoryRepo
	client     *http.Client
	vehicle    motopay.Vehicle
}

type fixtureOptions struct {
	guardWait time.Duration
	backend   func(http.Handler) http.Handler
	tokens    browsersession.TokenBackend
}

func newTestFixture(t *testing.T, opts fixtureOptions) *testFixture {
	t.Helper()

	b := fakebackend.New()
	var backendHandler http.Handler = b
	if opts.backend != nil {
		backendHandler = opts.backend(b)
	}
	backendSrv := httptest.NewServer(backendHandler)
	t.Cleanup(backendSrv.Close)

	_, err := b.AddUser(users.User{Email: "agent@motopay.ng", FirstName: "Ada", Role: users.RoleAgent}, "agent-pass")
	require.NoError(t, err)
	_, err = b.AddUser(users.User{Email: "admin@motopay.ng", FirstName: "Bola", Role: users.RoleAdmin}, "admin-pass")
	require.NoError(t, err)
	vehicle := b.AddVehicle(motopay.Vehicle{PlateNumber: "LAG-123-AA", Make: "Toyota", Model: "Corolla"})

	if opts.guardWait == 0 {
		opts.guardWait = 2 * time.Second
	}
	repo := browsersession.NewInMemoryRepo(browsersession.Factory{
		API:    api.Config{BaseURL: backendSrv.URL, Timeout: 5 * time.Second},
		Tokens: opts.tokens,
	}, time.Hour)

	s, err := server.New(testConfig{guardWait: opts.guardWait}, repo)
	require.NoError(t, err)
	portal := httptest.NewServer(s)
	t.Cleanup(portal.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Timeout: 10 * time.Second,
	}

	return &testFixture{backend: b, backendURL: backendSrv.URL, portal: portal, repo: repo, client: client, vehicle: vehicle}
}

func (f *testFixture) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (f *testFixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.portal.URL+path, nil)
	require.NoError(t, err)
	return f.do(t, req)
}

func (f *testFixture) login(t *testing.T, email, password string) *http.Response {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	req, err := http.NewRequest(http.MethodPost, f.portal.URL+server.RouteAuthLogin, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, _ := f.do(t, req)
	return resp
}

func (f *testFixture) sessionCookie(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(f.portal.URL)
	require.NoError(t, err)
	for _, c := range f.client.Jar.Cookies(u) {
		if c.Name == "motopay_session" {
			return c.Value
		}
	}
	return ""
}

func requireRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}

func TestGuard_AnonymousIsSentToLogin(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})

	for _, path := range []string{server.RouteAdminDashboard, server.RouteAdminPricing, server.RouteAgentDashboard} {
		resp, _ := f.get(t, path)
		requireRedirect(t, resp, server.RouteLogin)
	}
	require.NotEmpty(t, f.sessionCookie(t))
}

func TestGuard_HtmxRedirect(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})

	req, err := http.NewRequest(http.MethodGet, f.portal.URL+server.RouteAdminDashboard, nil)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	resp, _ := f.do(t, req)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, server.RouteLogin, resp.Header.Get("HX-Redirect"))
}

func TestLogin_AgentRotatesSessionAndLandsOnAgentHome(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})

	resp, _ := f.get(t, server.RouteLogin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	before := f.sessionCookie(t)
	require.NotEmpty(t, before)

	resp = f.login(t, "agent@motopay.ng", "agent-pass")
	requireRedirect(t, resp, server.RouteAgentDashboard)
	after := f.sessionCookie(t)
	require.NotEqual(t, before, after, "login must issue a new session id")

	_, err := f.repo.Get(before)
	require.Error(t, err, "the pre-login session is gone")

	resp, body := f.get(t, server.RouteAgentDashboard)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Agent dashboard")
	require.Contains(t, body, "Ada")

	// wrong role goes to the role's home, never to login
	resp, _ = f.get(t, server.RouteAdminDashboard)
	requireRedirect(t, resp, server.RouteAgentDashboard)

	// already signed in
	resp, _ = f.get(t, server.RouteLogin)
	requireRedirect(t, resp, server.RouteAgentDashboard)
}

func TestLogin_AdminPages(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})
	f.backend.AddException(motopay.Exception{Type: "PAYMENT", Description: "double charge"})
	f.backend.AddException(motopay.Exception{Type: "PAYMENT", Description: "refund issued", Status: motopay.ExceptionResolved})
	f.backend.AddPricing(motopay.PricingConfig{Name: "Vehicle License", Price: 3000, IsActive: true})

	resp := f.login(t, "admin@motopay.ng", "admin-pass")
	requireRedirect(t, resp, server.RouteAdminDashboard)

	resp, body := f.get(t, server.RouteAdminDashboard)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Active agents")

	_, body = f.get(t, server.RouteAdminExceptions)
	require.Contains(t, body, "double charge")
	require.Contains(t, body, "refund issued")

	_, body = f.get(t, server.RouteAdminResolution)
	require.Contains(t, body, "double charge")
	require.NotContains(t, body, "refund issued")

	_, body = f.get(t, server.RouteAdminPricing)
	require.Contains(t, body, "Vehicle License")
	require.Contains(t, body, "₦3000.00")

	resp, _ = f.get(t, server.RouteAgentDashboard)
	requireRedirect(t, resp, server.RouteAdminDashboard)
}

func TestLogin_BadPasswordShowsNoticeAndKeepsEmail(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})
	f.get(t, server.RouteLogin)
	before := f.sessionCookie(t)

	resp := f.login(t, "agent@motopay.ng", "wrong")
	requireRedirect(t, resp, server.RouteLogin+"?email=agent%40motopay.ng")
	require.Equal(t, before, f.sessionCookie(t))
	require.Equal(t, 1, f.repo.Len(), "the failed login's session is dropped")

	_, body := f.get(t, server.RouteLogin+"?email=agent%40motopay.ng")
	require.Contains(t, body, "Invalid email or password")
	require.Contains(t, body, `value="agent@motopay.ng"`)

	// shown once
	_, body = f.get(t, server.RouteLogin)
	require.NotContains(t, body, "Invalid email or password")
}

func TestLogin_RefusedEnvelopeShowsItsMessage(t *testing.T) {
	refusal := `{"success":false,"message":"Account locked"}`
	f := newTestFixture(t, fixtureOptions{
		backend: func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasSuffix(r.URL.Path, "/"+api.EndpointAuthLogin) {
					w.Header().Set("Content-Type", "application/json")
					_, _ = io.WriteString(w, refusal)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
	})
	f.get(t, server.RouteLogin)
	before := f.sessionCookie(t)

	requireRedirect(t, f.login(t, "agent@motopay.ng", "agent-pass"), server.RouteLogin+"?email=agent%40motopay.ng")
	require.Equal(t, before, f.sessionCookie(t))
	require.Equal(t, 1, f.repo.Len())
	_, body := f.get(t, server.RouteLogin)
	require.Contains(t, body, "Account locked")

	refusal = `{"success":false}`
	f.login(t, "agent@motopay.ng", "agent-pass")
	_, body = f.get(t, server.RouteLogin)
	require.Contains(t, body, api.MsgInvalidLogin)
}

func TestLogin_InvalidInputNeverReachesBackend(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})

	resp := f.login(t, "agent@motopay.ng", "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Zero(t, f.backend.Calls(api.EndpointAuthLogin))

	_, body := f.get(t, server.RouteLogin)
	require.Contains(t, body, "Please enter a valid email and password.")
}

func TestLogout(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})
	requireRedirect(t, f.login(t, "agent@motopay.ng", "agent-pass"), server.RouteAgentDashboard)
	sessionID := f.sessionCookie(t)

	resp, _ := f.get(t, server.RouteAuthLogout)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, "a plain link cannot log out")
	require.Zero(t, f.backend.Calls(api.EndpointAuthLogout))

	req, err := http.NewRequest(http.MethodPost, f.portal.URL+server.RouteAuthLogout, nil)
	require.NoError(t, err)
	resp, _ = f.do(t, req)
	requireRedirect(t, resp, server.RouteLogin)
	require.Equal(t, 1, f.backend.Calls(api.EndpointAuthLogout))
	_, err = f.repo.Get(sessionID)
	require.Error(t, err)

	resp, _ = f.get(t, server.RouteAgentDashboard)
	requireRedirect(t, resp, server.RouteLogin)
}

func TestRejectedTokenEndsTheSession(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})
	requireRedirect(t, f.login(t, "agent@motopay.ng", "agent-pass"), server.RouteAgentDashboard)

	agent, err := f.repo.Get(f.sessionCookie(t))
	require.NoError(t, err)
	f.backend.Deactivate(agent.Context.User().ID)

	resp, _ := f.get(t, server.RouteAgentDashboard)
	requireRedirect(t, resp, server.RouteLogin)
	require.False(t, agent.Context.IsAuthenticated())

	_, body := f.get(t, server.RouteLogin)
	require.Contains(t, body, api.MsgSessionExpired)
}

func TestGuard_ClearedTokensSendToLogin(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})
	requireRedirect(t, f.login(t, "admin@motopay.ng", "admin-pass"), server.RouteAdminDashboard)

	admin, err := f.repo.Get(f.sessionCookie(t))
	require.NoError(t, err)
	admin.Tokens.Clear()

	resp, _ := f.get(t, server.RouteAdminDashboard)
	requireRedirect(t, resp, server.RouteLogin)
	require.False(t, admin.Context.IsAuthenticated())
}

func TestGuard_WaitsForSessionRestore(t *testing.T) {
	gate := make(chan struct{})
	var release sync.Once
	open := func() { release.Do(func() { close(gate) }) }

	shared := tokens.NewMemoryKV()
	f := newTestFixture(t, fixtureOptions{
		guardWait: 20 * time.Millisecond,
		tokens:    func(string) tokens.KV { return shared },
		backend: func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasSuffix(r.URL.Path, "/"+api.EndpointAuthMe) {
					<-gate
				}
				next.ServeHTTP(w, r)
			})
		},
	})

	// registered after the fixture so it runs before the servers close
	t.Cleanup(open)

	// a token pair left from an earlier visit
	store := tokens.New(shared)
	gw := api.New(api.Config{BaseURL: f.backendURL, Timeout: 5 * time.Second}, store, api.WithNotifier(api.NewQueue(0)))
	_, err := auth.NewService(gw, store).Login(context.Background(), auth.LoginRequest{Email: "admin@motopay.ng", Password: "admin-pass"})
	require.NoError(t, err)

	resp, body := f.get(t, server.RouteAdminDashboard)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `http-equiv="refresh"`)

	open()
	require.Eventually(t, func() bool {
		resp, body := f.get(t, server.RouteAdminDashboard)
		return resp.StatusCode == http.StatusOK && strings.Contains(body, "Admin dashboard")
	}, 5*time.Second, 20*time.Millisecond)
}

func TestVehicleLookup(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})

	post := func(body string) (*http.Response, map[string]any) {
		req, err := http.NewRequest(http.MethodPost, f.portal.URL+server.RouteAPILookup, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, raw := f.do(t, req)
		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &out))
		return resp, out
	}

	resp, out := post(`{"identifier":"lag-123-aa","type":"plate"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.Equal(t, true, out["success"])
	require.Equal(t, f.vehicle.ID, out["data"].(map[string]any)["id"])

	resp, out = post(`{"identifier":"NOPE-000"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, false, out["success"])
	require.Equal(t, "Vehicle not found", out["message"])

	resp, _ = post(`{"identifier":"  "}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(`not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// lookup failures stay out of the next rendered page
	_, body := f.get(t, server.RouteIndex)
	require.NotContains(t, body, "Vehicle not found")
}

func TestCorsPreflight(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})

	req, err := http.NewRequest(http.MethodOptions, f.portal.URL+server.RouteAPILookup, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, _ := f.do(t, req)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")

	req.Header.Set("Origin", "https://evil.example")
	resp, _ = f.do(t, req)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})

	resp, body := f.get(t, server.RouteHealth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"success":true,"data":{"status":"ok","app":"MotoPay Portal","env":"DEV"}}`, body)
}

func TestMiddleware_Headers(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})

	req, err := http.NewRequest(http.MethodGet, f.portal.URL+server.RouteIndex, nil)
	require.NoError(t, err)
	req.Header.Set(server.CorrelationIDHeader, "cid-123")
	resp, body := f.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "cid-123", resp.Header.Get(server.CorrelationIDHeader))
	require.Equal(t, "SAMEORIGIN", resp.Header.Get("X-Frame-Options"))
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	require.Contains(t, body, "Look up")

	resp, _ = f.get(t, server.RouteHealth)
	require.NotEmpty(t, resp.Header.Get(server.CorrelationIDHeader))
}

func TestStaticCSS(t *testing.T) {
	f := newTestFixture(t, fixtureOptions{})

	resp, body := f.get(t, "/css/portal.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	require.NotEmpty(t, body)

	resp, _ = f.get(t, "/css/missing.css")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
