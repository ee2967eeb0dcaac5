package browsersession_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/motopay/portal/internal/config"
	"github.com/motopay/portal/internal/errors"
	"github.com/motopay/portal/server/browsersession"
)

type sessionConfig struct {
	config.Session
	store    string
	redisURL string
}

func (c sessionConfig) GetTokenStore() string { return c.store }
func (c sessionConfig) GetRedisURL() string   { return c.redisURL }

func TestOpenTokenBackend_Memory(t *testing.T) {
	backend, closeFn, err := browsersession.OpenTokenBackend(context.Background(), sessionConfig{store: config.TokenStoreMemory})
	require.NoError(t, err)
	require.NoError(t, closeFn())

	kv := backend("a")
	kv.Set("k", "v")
	_, ok := backend("b").Get("k")
	require.False(t, ok, "each session gets its own store")
}

func TestOpenTokenBackend_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	backend, closeFn, err := browsersession.OpenTokenBackend(context.Background(), sessionConfig{
		store:    config.TokenStoreRedis,
		redisURL: "redis://" + mr.Addr() + "/0",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	backend("sess-1").Set("accessToken", "abc")
	got, err := mr.Get("motopay:session:sess-1:accessToken")
	require.NoError(t, err)
	require.Equal(t, "abc", got)
	require.Greater(t, mr.TTL("motopay:session:sess-1:accessToken"), time.Duration(0))
}

func TestOpenTokenBackend_Errors(t *testing.T) {
	_, closeFn, err := browsersession.OpenTokenBackend(context.Background(), sessionConfig{store: "etcd"})
	require.ErrorIs(t, err, errors.ErrUnknownTokenStore)
	require.NotNil(t, closeFn)

	_, _, err = browsersession.OpenTokenBackend(context.Background(), sessionConfig{store: config.TokenStoreRedis, redisURL: "mysql://nope"})
	require.ErrorIs(t, err, errors.ErrInvalidRedisURL)
}
