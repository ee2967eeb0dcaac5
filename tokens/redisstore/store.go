// Package redisstore is a redis backed tokens.KV. The portal uses one
// namespace per browser session so tokens survive a portal restart.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/motopay/portal/tokens"
)

const opTimeout = 2 * time.Second

var _ tokens.KV = (*KV)(nil)

// KV stores values under "<namespace>:<key>".
type KV struct {
	rdb       redis.UniversalClient
	namespace string
	ttl       time.Duration
}

// Namespace builds the per-session key namespace.
func Namespace(prefix, sessionID string) string {
	if prefix == "" {
		return sessionID
	}
	return prefix + ":" + sessionID
}

// New returns a KV scoped to namespace. A ttl of zero keeps keys forever;
// otherwise it is an idle TTL, restarted by every write and every hit.
func New(rdb redis.UniversalClient, namespace string, ttl time.Duration) *KV {
	return &KV{rdb: rdb, namespace: namespace, ttl: ttl}
}

func (k *KV) key(name string) string {
	return k.namespace + ":" + name
}

func (k *KV) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var cmd *redis.StringCmd
	if k.ttl > 0 {
		cmd = k.rdb.GetEx(ctx, k.key(key), k.ttl)
	} else {
		cmd = k.rdb.Get(ctx, k.key(key))
	}
	v, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", k.key(key)).Msg("redis token read failed")
		return "", false
	}
	if k.ttl > 0 {
		k.touchPair(ctx, key)
	}
	return v, true
}

// touchPair restarts the TTL of the other token so the pair expires together.
func (k *KV) touchPair(ctx context.Context, read string) {
	pipe := k.rdb.Pipeline()
	for _, name := range []string{tokens.AccessTokenKey, tokens.RefreshTokenKey} {
		if name != read {
			pipe.Expire(ctx, k.key(name), k.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Str("namespace", k.namespace).Msg("redis token ttl refresh failed")
	}
}

func (k *KV) Set(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := k.rdb.Set(ctx, k.key(key), value, k.ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", k.key(key)).Msg("redis token write failed")
	}
}

func (k *KV) Delete(keys ...string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	full := make([]string, 0, len(keys))
	for _, name := range keys {
		full = append(full, k.key(name))
	}
	if err := k.rdb.Del(ctx, full...).Err(); err != nil {
		log.Error().Err(err).Strs("keys", full).Msg("redis token delete failed")
	}
}
