package browsersession

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/motopay/portal/internal/config"
	"github.com/motopay/portal/internal/errors"
)

const redisKeyPrefix = "motopay:session"

// OpenTokenBackend picks where browser tokens live from TOKEN_STORE. The
// returned close func releases any connection and is never nil.
func OpenTokenBackend(ctx context.Context, c config.SessionConfig) (TokenBackend, func() error, error) {
	noop := func() error { return nil }

	switch c.GetTokenStore() {
	case config.TokenStoreMemory, "":
		log.Info().Msg("browser tokens kept in memory")
		return MemoryTokens, noop, nil

	case config.TokenStoreRedis:
		opts, err := redis.ParseURL(c.GetRedisURL())
		if err != nil {
			return nil, noop, errors.Wrapf(errors.ErrInvalidRedisURL, "[browsersession OpenTokenBackend] %v", err)
		}
		rdb := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, noop, errors.Wrapf(err, "[browsersession OpenTokenBackend] redis ping %s", opts.Addr)
		}

		log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("browser tokens kept in redis")
		return RedisTokens(rdb, redisKeyPrefix, c.GetSessionMaxIdle()), rdb.Close, nil

	default:
		return nil, noop, errors.Wrapf(errors.ErrUnknownTokenStore, "[browsersession OpenTokenBackend] %q", c.GetTokenStore())
	}
}
