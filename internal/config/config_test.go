package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-agri-dashboard/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := config.New(config.WithEnvFiles())

	require.Equal(t, "https://backendcase.infodecs.dev", cfg.GetAPIURL())
	require.Equal(t, 30*time.Second, cfg.GetHTTPTimeout())
	require.True(t, cfg.GetCoalesceRefresh())
	require.Equal(t, config.SessionBackendFile, cfg.GetSessionBackend())
	require.Equal(t, ":8080", cfg.GetPort())
	require.Equal(t, "DEV", cfg.GetEnv())

	rps, burst := cfg.GetRateLimit()
	require.Zero(t, rps)
	require.Equal(t, 1, burst)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("AGRI_API_URL", "http://localhost:9999")
	t.Setenv("AGRI_HTTP_TIMEOUT", "5s")
	t.Setenv("AGRI_SESSION_BACKEND", "redis")
	t.Setenv("AGRI_MOCK_PORT", ":9090")
	t.Setenv("AGRI_MOCK_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("AGRI_ENV", "prod")

	cfg := config.New(config.WithEnvFiles())

	require.Equal(t, "http://localhost:9999", cfg.GetAPIURL())
	require.Equal(t, 5*time.Second, cfg.GetHTTPTimeout())
	require.Equal(t, config.SessionBackendRedis, cfg.GetSessionBackend())
	require.Equal(t, ":9090", cfg.GetPort())
	require.Equal(t, "PROD", cfg.GetEnv())

	origins := cfg.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("http://a.test"))
	require.True(t, origins.IsAllowedOrigin("http://b.test"))
	require.False(t, origins.IsAllowedOrigin("http://c.test"))
}

func TestBindFlag(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-url", "", "")
	require.NoError(t, flags.Parse([]string{"--api-url", "http://flag.test"}))

	cfg := config.New(config.WithEnvFiles())
	require.NoError(t, cfg.BindFlag(config.KeyAPIURL, flags.Lookup("api-url")))
	require.Equal(t, "http://flag.test", cfg.GetAPIURL())
}
