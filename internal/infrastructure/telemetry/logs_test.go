package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled provider carries no exporter", func(t *testing.T) {
		provider, err := NewLoggerProvider(ctx, LogsConfig{
			Enabled:           false,
			CollectorEndpoint: "localhost:14317",
			ServiceName:       "mercato-backend",
			Insecure:          true,
		}, zap.NewNop())
		require.NoError(t, err)

		assert.False(t, provider.IsEnabled())
		assert.Nil(t, provider.GetLoggerProvider())
		assert.NoError(t, provider.ForceFlush(ctx))
		assert.NoError(t, provider.Shutdown(ctx))
		assert.NoError(t, provider.Shutdown(ctx), "repeated shutdown is safe")
	})

	t.Run("enabled provider buffers without a collector", func(t *testing.T) {
		provider, err := NewLoggerProvider(ctx, LogsConfig{
			Enabled:           true,
			CollectorEndpoint: "localhost:19999",
			ServiceName:       "mercato-backend",
			Insecure:          true,
		}, zap.NewNop())
		require.NoError(t, err)

		assert.True(t, provider.IsEnabled())
		assert.NotNil(t, provider.GetLoggerProvider())
		assert.NoError(t, provider.Shutdown(ctx))
	})

	t.Run("config round-trips", func(t *testing.T) {
		cfg := LogsConfig{
			Enabled:           false,
			CollectorEndpoint: "localhost:14317",
			ServiceName:       "mercato-backend",
			Insecure:          true,
		}
		provider, err := NewLoggerProvider(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, cfg, provider.GetConfig())
	})
}

func TestNewZapOTELCore(t *testing.T) {
	ctx := context.Background()

	t.Run("nil or disabled provider yields a nop core", func(t *testing.T) {
		core := NewZapOTELCore(ZapBridgeConfig{
			ServiceName: "mercato-backend",
			Level:       zapcore.InfoLevel,
		})
		assert.False(t, core.Enabled(zapcore.InfoLevel))

		disabled, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, err)
		core = NewZapOTELCore(ZapBridgeConfig{
			ServiceName:    "mercato-backend",
			LoggerProvider: disabled,
			Level:          zapcore.InfoLevel,
		})
		assert.False(t, core.Enabled(zapcore.InfoLevel))
	})

	t.Run("enabled provider honors the configured level", func(t *testing.T) {
		provider, err := NewLoggerProvider(ctx, LogsConfig{
			Enabled:           true,
			CollectorEndpoint: "localhost:19999",
			ServiceName:       "mercato-backend",
			Insecure:          true,
		}, zap.NewNop())
		require.NoError(t, err)
		defer provider.Shutdown(ctx)

		core := NewZapOTELCore(ZapBridgeConfig{
			ServiceName:    "mercato-backend",
			LoggerProvider: provider,
			Level:          zapcore.WarnLevel,
		})

		_, isFiltered := core.(*levelFilterCore)
		assert.True(t, isFiltered, "core should be wrapped with levelFilterCore")
		assert.False(t, core.Enabled(zapcore.InfoLevel))
		assert.True(t, core.Enabled(zapcore.WarnLevel))
		assert.True(t, core.Enabled(zapcore.ErrorLevel))
	})
}

func TestNewBridgedLogger(t *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.InfoLevel)

	logger := NewBridgedLogger(observedCore, zapcore.NewNopCore(), zap.AddCaller())
	logger.Info("payout dispatched", zap.String("payout_id", "po_1"))
	logger.Debug("skipped")
	logger.Warn("gateway retry")

	logs := observedLogs.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "payout dispatched", logs[0].Message)
	assert.Contains(t, logs[0].Context, zap.String("payout_id", "po_1"))
	assert.Equal(t, zapcore.WarnLevel, logs[1].Level)
}

func TestLevelFilterCore_With(t *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: observedCore, minLevel: zapcore.WarnLevel}

	child := filtered.With([]zapcore.Field{zap.String("service", "mercato-backend")})
	lfCore, ok := child.(*levelFilterCore)
	require.True(t, ok, "With preserves the filter wrapper")
	assert.Equal(t, zapcore.WarnLevel, lfCore.minLevel)

	logger := zap.New(child)
	logger.Info("dropped")
	logger.Warn("kept")

	logs := observedLogs.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "kept", logs[0].Message)
	assert.Contains(t, logs[0].Context, zap.String("service", "mercato-backend"))
}

func TestCreateBridgedLoggerFromConfig(t *testing.T) {
	provider, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	logger, err := CreateBridgedLoggerFromConfig(&BaseLoggerConfig{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, provider, "mercato-backend")
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("checkout accepted", zap.String("order_id", "ord_1"))
	logger.Sync()
}

func TestDefaultBaseLoggerConfig(t *testing.T) {
	cfg := DefaultBaseLoggerConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestParseLogLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, parseLogLevel(tc.input))
		})
	}
}

func TestCreateBaseCore(t *testing.T) {
	core := createBaseCore(&BaseLoggerConfig{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	assert.True(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))
	assert.False(t, core.Enabled(zapcore.DebugLevel))
}
