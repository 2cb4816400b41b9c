package logging_test

import (
	"bytes"
	"testing"

	"github.com/jrsteele09/go-agri-dashboard/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("json outside DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.SetupWriter(&buf, "warn", "PROD")

		logger.Info().Msg("hidden")
		logger.Warn().Str("route", "/api/table/data/").Msg("slow")

		require.NotContains(t, buf.String(), "hidden")
		require.Contains(t, buf.String(), `"route":"/api/table/data/"`)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupWriter(&buf, "chatty", "PROD")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})
}
