package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type MockAPIConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetRotateRefreshTokens() bool
	GetAllowedOrigins() AllowedOrigins
}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

const (
	KeyMockPort           = "mock_port"
	keyMockJWTSecret      = "mock_jwt_secret"
	keyMockAccessTTL      = "mock_access_ttl"
	keyMockRefreshTTL     = "mock_refresh_ttl"
	keyMockRotateRefresh  = "mock_rotate_refresh"
	keyMockAllowedOrigins = "mock_allowed_origins"
)

func setMockAPIDefaults(v *viper.Viper) {
	v.SetDefault(KeyMockPort, "8080")
	v.SetDefault(keyMockJWTSecret, "mock-api-secret")
	v.SetDefault(keyMockAccessTTL, 5*time.Minute)
	v.SetDefault(keyMockRefreshTTL, 7*24*time.Hour)
	v.SetDefault(keyMockRotateRefresh, true)
	v.SetDefault(keyMockAllowedOrigins, "http://localhost:5173")
}

var _ MockAPIConfig = mainConfig{}

func (c mainConfig) GetPort() string {
	port := c.v.GetString(KeyMockPort)
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (c mainConfig) GetJWTSecret() string {
	return c.v.GetString(keyMockJWTSecret)
}

func (c mainConfig) GetAccessTokenTTL() time.Duration {
	return c.v.GetDuration(keyMockAccessTTL)
}

func (c mainConfig) GetRefreshTokenTTL() time.Duration {
	return c.v.GetDuration(keyMockRefreshTTL)
}

func (c mainConfig) GetRotateRefreshTokens() bool {
	return c.v.GetBool(keyMockRotateRefresh)
}

// GetAllowedOrigins parses the comma separated origin list
func (c mainConfig) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	for _, origin := range strings.Split(c.v.GetString(keyMockAllowedOrigins), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins[origin] = nullValue{}
		}
	}
	return origins
}
