package api

import (
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds every backend round trip.
	DefaultTimeout = 30 * time.Second

	DefaultBaseURL       = "http://localhost:5000"
	DefaultVersion       = "v1"
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second
)

// Config describes how to reach the backend.
//
// RetryAttempts and RetryDelay are carried for configuration parity with the
// deployment environment. The request path does not read them: requests are
// never retried, because replaying a POST such as payment initialisation is
// not safe.
type Config struct {
	BaseURL       string
	Version       string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		Version:       DefaultVersion,
		Timeout:       DefaultTimeout,
		RetryAttempts: DefaultRetryAttempts,
		RetryDelay:    DefaultRetryDelay,
	}
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// APIRoot returns "{base}/api/{version}".
func (c Config) APIRoot() string {
	c = c.withDefaults()
	return strings.TrimRight(c.BaseURL, "/") + "/api/" + c.Version
}

// URL composes "{base}/api/{version}/{endpoint}". A single leading slash on
// endpoint is dropped.
func (c Config) URL(endpoint string) string {
	return c.APIRoot() + "/" + strings.TrimPrefix(endpoint, "/")
}
