package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, v := range []string{"PORT", "ENV", "API_BASE_URL", "API_VERSION", "API_RETRY_ATTEMPTS", "API_RETRY_DELAY", "TOKEN_STORE", "SESSION_MAX_IDLE", "GUARD_WAIT"} {
		t.Setenv(v, "")
	}
	cfg := config.New()

	require.Equal(t, ":8080", cfg.GetPort())
	require.Equal(t, "DEV", cfg.GetEnv())
	require.Equal(t, "http://localhost:5000", cfg.GetAPIBaseURL())
	require.Equal(t, "v1", cfg.GetAPIVersion())
	require.Equal(t, 3, cfg.GetAPIRetryAttempts())
	require.Equal(t, time.Second, cfg.GetAPIRetryDelay())
	require.Equal(t, config.TokenStoreMemory, cfg.GetTokenStore())
	require.Equal(t, 30*time.Minute, cfg.GetSessionMaxIdle())
	require.Equal(t, 2*time.Second, cfg.GetGuardWait())
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("API_BASE_URL", "https://api.motopay.ng")
	t.Setenv("API_VERSION", "v2")
	t.Setenv("API_RETRY_ATTEMPTS", "5")
	t.Setenv("GUARD_WAIT", "500ms")
	t.Setenv("TOKEN_STORE", "redis")

	cfg := config.New()
	require.Equal(t, ":9090", cfg.GetPort())
	require.Equal(t, 500*time.Millisecond, cfg.GetGuardWait())
	require.Equal(t, config.TokenStoreRedis, cfg.GetTokenStore())

	apiCfg := config.APIClientConfig(cfg)
	require.Equal(t, "https://api.motopay.ng/api/v2/auth/me", apiCfg.URL(api.EndpointAuthMe))
	require.Equal(t, 5, apiCfg.RetryAttempts)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("API_RETRY_ATTEMPTS", "many")
	t.Setenv("SESSION_MAX_IDLE", "forever")

	cfg := config.New()
	require.Equal(t, api.DefaultRetryAttempts, cfg.GetAPIRetryAttempts())
	require.Equal(t, 30*time.Minute, cfg.GetSessionMaxIdle())
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.motopay.ng, https://b.motopay.ng,")

	origins := config.New().GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.motopay.ng"))
	require.True(t, origins.IsAllowedOrigin("https://b.motopay.ng"))
	require.False(t, origins.IsAllowedOrigin("https://evil.example"))
	require.Len(t, origins, 2)
}

func TestTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	t.Setenv("MOTOPAY_TOKEN_FILE", path)
	require.Equal(t, path, config.New().GetTokenFile())
}
