package config

import (
	"time"

	"github.com/spf13/viper"
)

type ClientConfig interface {
	GetAPIURL() string
	GetHTTPTimeout() time.Duration
	GetRateLimit() (rps float64, burst int)
	GetCoalesceRefresh() bool
}

const (
	KeyAPIURL         = "api_url"
	keyHTTPTimeout    = "http_timeout"
	keyRateLimitRPS   = "rate_limit_rps"
	keyRateLimitBurst = "rate_limit_burst"
	keyCoalesce       = "coalesce_refresh"
)

func setClientDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, "https://backendcase.infodecs.dev")
	v.SetDefault(keyHTTPTimeout, 30*time.Second)
	v.SetDefault(keyRateLimitRPS, 0)
	v.SetDefault(keyRateLimitBurst, 1)
	v.SetDefault(keyCoalesce, true)
}

var _ ClientConfig = mainConfig{}

func (c mainConfig) GetAPIURL() string {
	return c.v.GetString(KeyAPIURL)
}

func (c mainConfig) GetHTTPTimeout() time.Duration {
	return c.v.GetDuration(keyHTTPTimeout)
}

// GetRateLimit returns the outbound request budget. A zero rps disables limiting.
func (c mainConfig) GetRateLimit() (float64, int) {
	burst := c.v.GetInt(keyRateLimitBurst)
	if burst < 1 {
		burst = 1
	}
	return c.v.GetFloat64(keyRateLimitRPS), burst
}

// GetCoalesceRefresh reports whether concurrent refreshes of the same
// refresh token should share a single call to the refresh endpoint.
func (c mainConfig) GetCoalesceRefresh() bool {
	return c.v.GetBool(keyCoalesce)
}
