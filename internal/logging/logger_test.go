package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/JakeFAU/bbref-scraper/internal/config"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.LoggingConfig
		want zapcore.Level
	}{
		{name: "development default level", cfg: config.LoggingConfig{Development: true}, want: zapcore.InfoLevel},
		{name: "development debug", cfg: config.LoggingConfig{Development: true, Level: "debug"}, want: zapcore.DebugLevel},
		{name: "production warn", cfg: config.LoggingConfig{Level: "warn"}, want: zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)
			defer logger.Sync() //nolint:errcheck // best-effort flush

			assert.True(t, logger.Core().Enabled(tt.want))
			assert.False(t, logger.Core().Enabled(tt.want-1))
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(config.LoggingConfig{Level: "chatty"})
	require.ErrorContains(t, err, "parse log level")
}
