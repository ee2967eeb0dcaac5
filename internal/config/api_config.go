package config

import (
	"time"

	"github.com/motopay/portal/api"
)

type API struct{}

var _ APIConfig = API{}

func (API) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", api.DefaultBaseURL)
}

func (API) GetAPIVersion() string {
	return GetEnv("API_VERSION", api.DefaultVersion)
}

func (API) GetAPITimeout() time.Duration {
	return GetEnvDuration("API_TIMEOUT", api.DefaultTimeout)
}

// GetAPIRetryAttempts is reported but nothing retries.
func (API) GetAPIRetryAttempts() int {
	return GetEnvInt("API_RETRY_ATTEMPTS", api.DefaultRetryAttempts)
}

func (API) GetAPIRetryDelay() time.Duration {
	return GetEnvDuration("API_RETRY_DELAY", api.DefaultRetryDelay)
}

// APIClientConfig gathers the gateway settings.
func APIClientConfig(c APIConfig) api.Config {
	return api.Config{
		BaseURL:       c.GetAPIBaseURL(),
		Version:       c.GetAPIVersion(),
		Timeout:       c.GetAPITimeout(),
		RetryAttempts: c.GetAPIRetryAttempts(),
		RetryDelay:    c.GetAPIRetryDelay(),
	}
}
