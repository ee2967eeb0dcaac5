package session_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/auth"
	"github.com/motopay/portal/internal/fakebackend"
	"github.com/motopay/portal/session"
	"github.com/motopay/portal/tokens"
	"github.com/motopay/portal/users"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	backend *fakebackend.Backend
	server  *httptest.Server
	store   *tokens.Manager
	authSvc *auth.Service
	sess    *session.Context
	admin   users.User
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		backend: fakebackend.New(),
		store:   tokens.New(tokens.NewMemoryKV()),
	}
	f.server = httptest.NewServer(f.backend)
	t.Cleanup(f.server.Close)

	admin, err := f.backend.AddUser(users.User{Email: "admin@motopay.ng", FirstName: "Bola", Role: users.RoleAdmin}, "admin-pass")
	require.NoError(t, err)
	f.admin = admin

	client := api.New(api.Config{BaseURL: f.server.URL, Timeout: 5 * time.Second}, f.store, api.WithNotifier(api.NewQueue(0)))
	f.authSvc = auth.NewService(client, f.store)
	f.sess = session.New(f.authSvc, f.store)
	return f
}

// loginOutOfBand leaves a valid token pair in the store without touching the
// session, as if it had been saved by an earlier visit.
func (f *testFixture) loginOutOfBand(t *testing.T) {
	t.Helper()
	_, err := f.authSvc.Login(context.Background(), auth.LoginRequest{Email: "admin@motopay.ng", Password: "admin-pass"})
	require.NoError(t, err)
}

func TestNew_StartsLoading(t *testing.T) {
	f := newTestFixture(t)

	require.True(t, f.sess.IsLoading())
	require.False(t, f.sess.IsAuthenticated())
	require.Nil(t, f.sess.User())
	select {
	case <-f.sess.Ready():
		t.Fatal("ready before Initialize")
	default:
	}
}

func TestInitialize_NoTokenMakesNoCall(t *testing.T) {
	f := newTestFixture(t)

	f.sess.Initialize(context.Background())

	require.False(t, f.sess.IsLoading())
	require.Nil(t, f.sess.User())
	require.Zero(t, f.backend.Calls(api.EndpointAuthMe))
	<-f.sess.Ready()
}

func TestInitialize_RestoresUser(t *testing.T) {
	f := newTestFixture(t)
	f.loginOutOfBand(t)

	f.sess.Initialize(context.Background())

	require.False(t, f.sess.IsLoading())
	require.True(t, f.sess.IsAuthenticated())
	require.Equal(t, f.admin.ID, f.sess.User().ID)
	require.Equal(t, 1, f.backend.Calls(api.EndpointAuthMe))
}

func TestInitialize_RejectedTokenDegradesToGuest(t *testing.T) {
	f := newTestFixture(t)
	f.store.SetTokens("expired", "stale-refresh")

	f.sess.Initialize(context.Background())

	require.False(t, f.sess.IsLoading())
	require.Nil(t, f.sess.User())
	_, ok := f.store.AccessToken()
	require.False(t, ok)
	_, ok = f.store.RefreshToken()
	require.False(t, ok)
}

func TestInitialize_UnreachableBackendDegradesToGuest(t *testing.T) {
	f := newTestFixture(t)
	f.store.SetTokens("a", "r")
	f.server.Close()

	f.sess.Initialize(context.Background())

	require.False(t, f.sess.IsLoading())
	require.Nil(t, f.sess.User())
	_, ok := f.store.AccessToken()
	require.False(t, ok)
}

func TestInitialize_RunsOnce(t *testing.T) {
	f := newTestFixture(t)
	f.loginOutOfBand(t)

	f.sess.Initialize(context.Background())
	f.sess.Initialize(context.Background())

	require.Equal(t, 1, f.backend.Calls(api.EndpointAuthMe))
}

func TestLogin_SetsUser(t *testing.T) {
	f := newTestFixture(t)
	f.sess.Initialize(context.Background())

	resp, err := f.sess.Login(context.Background(), "admin@motopay.ng", "admin-pass")
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.True(t, f.sess.IsAuthenticated())
	require.Equal(t, users.RoleAdmin, f.sess.User().Role)
}

func TestLogin_BadCredentialsLeavesGuest(t *testing.T) {
	f := newTestFixture(t)
	f.sess.Initialize(context.Background())

	resp, err := f.sess.Login(context.Background(), "admin@motopay.ng", "wrong")
	require.Nil(t, resp)
	require.ErrorIs(t, err, api.ErrUnauthorized)
	require.False(t, f.sess.IsAuthenticated())
}

func TestLogout_ClearsUserAndTokens(t *testing.T) {
	f := newTestFixture(t)
	f.sess.Initialize(context.Background())
	_, err := f.sess.Login(context.Background(), "admin@motopay.ng", "admin-pass")
	require.NoError(t, err)

	require.NoError(t, f.sess.Logout(context.Background()))
	require.Nil(t, f.sess.User())
	_, ok := f.store.AccessToken()
	require.False(t, ok)
}

func TestLogout_BackendDownStillClears(t *testing.T) {
	f := newTestFixture(t)
	f.sess.Initialize(context.Background())
	_, err := f.sess.Login(context.Background(), "admin@motopay.ng", "admin-pass")
	require.NoError(t, err)
	f.server.Close()

	require.Error(t, f.sess.Logout(context.Background()))
	require.Nil(t, f.sess.User())
	_, ok := f.store.AccessToken()
	require.False(t, ok)
}

func TestRefreshUser(t *testing.T) {
	f := newTestFixture(t)
	f.sess.Initialize(context.Background())

	t.Run("no token is a no-op", func(t *testing.T) {
		require.NoError(t, f.sess.RefreshUser(context.Background()))
		require.Zero(t, f.backend.Calls(api.EndpointAuthMe))
	})

	t.Run("reloads identity", func(t *testing.T) {
		f.loginOutOfBand(t)
		require.NoError(t, f.sess.RefreshUser(context.Background()))
		require.Equal(t, f.admin.ID, f.sess.User().ID)
	})

	t.Run("deactivated account drops the user", func(t *testing.T) {
		f.backend.Deactivate(f.admin.ID)
		require.ErrorIs(t, f.sess.RefreshUser(context.Background()), api.ErrUnauthorized)
		require.Nil(t, f.sess.User())
	})
}

func TestUser_ReturnsCopy(t *testing.T) {
	f := newTestFixture(t)
	f.sess.Initialize(context.Background())
	_, err := f.sess.Login(context.Background(), "admin@motopay.ng", "admin-pass")
	require.NoError(t, err)

	u := f.sess.User()
	u.Role = users.RoleSuperAdmin
	require.Equal(t, users.RoleAdmin, f.sess.User().Role)
}

func TestWait(t *testing.T) {
	f := newTestFixture(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, f.sess.Wait(ctx), context.DeadlineExceeded)

	go f.sess.Initialize(context.Background())
	require.NoError(t, f.sess.Wait(context.Background()))
	require.False(t, f.sess.IsLoading())
}

func TestSync_DropsUserAfterTokensCleared(t *testing.T) {
	f := newTestFixture(t)
	f.sess.Initialize(context.Background())
	_, err := f.sess.Login(context.Background(), "admin@motopay.ng", "admin-pass")
	require.NoError(t, err)
	require.True(t, f.sess.Sync())

	f.store.Clear()
	require.False(t, f.sess.Sync())
	require.Nil(t, f.sess.User())
	require.Zero(t, f.backend.Calls(api.EndpointAuthMe)-1, "sync never calls the backend")
}

func TestIsAuthenticated_NeedsTokenAndUser(t *testing.T) {
	f := newTestFixture(t)
	f.sess.Initialize(context.Background())
	_, err := f.sess.Login(context.Background(), "admin@motopay.ng", "admin-pass")
	require.NoError(t, err)
	require.True(t, f.sess.IsAuthenticated())

	f.store.Clear()

	require.False(t, f.sess.IsAuthenticated())
	user, loading := f.sess.Snapshot()
	require.Nil(t, user)
	require.False(t, loading)
	require.Nil(t, f.sess.User())
}
