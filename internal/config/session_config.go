package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

type Session struct{}

var _ SessionConfig = Session{}

// GetTokenStore is "memory" or "redis".
func (Session) GetTokenStore() string {
	return GetEnv("TOKEN_STORE", TokenStoreMemory)
}

func (Session) GetRedisURL() string {
	return GetEnv("REDIS_URL", "redis://localhost:6379/0")
}

// GetSessionMaxIdle is how long an unused browser session is kept.
func (Session) GetSessionMaxIdle() time.Duration {
	return GetEnvDuration("SESSION_MAX_IDLE", 30*time.Minute)
}

// GetGuardWait bounds how long a protected page waits for session restore.
func (Session) GetGuardWait() time.Duration {
	return GetEnvDuration("GUARD_WAIT", 2*time.Second)
}

// GetTokenFile is where the CLI keeps its tokens.
func (Session) GetTokenFile() string {
	if path := os.Getenv("MOTOPAY_TOKEN_FILE"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "motopay", "tokens.json")
}
