package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	APIConfig
	CorsConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPIVersion() string
	GetAPITimeout() time.Duration
	GetAPIRetryAttempts() int
	GetAPIRetryDelay() time.Duration
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type SessionConfig interface {
	GetTokenStore() string
	GetRedisURL() string
	GetSessionMaxIdle() time.Duration
	GetGuardWait() time.Duration
	GetTokenFile() string
}

type mainConfig struct {
	EnvVars
	API
	Cors
	Session
}

// New reads a .env file from the working directory when there is one, then
// serves every setting from the environment.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
