package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/mercato/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func disabledTracerConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "mercato-backend",
	}
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := disabledTracerConfig()

	tp, err := telemetry.NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())
	assert.Equal(t, "mercato-backend", tp.GetConfig().ServiceName)

	// Disabled provider still hands out a usable no-op tracer.
	tracer := tp.Tracer("checkout")
	require.NotNil(t, tracer)
	_, span := tracer.Start(ctx, "order.checkout")
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))

	// Shutdown ignores an already-cancelled context when nothing was started.
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.NoError(t, tp.Shutdown(cancelled))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	// Requires a running OTEL collector, see docker-compose.
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := disabledTracerConfig()
	cfg.Enabled = true

	tp, err := telemetry.NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	_, span := tp.Tracer("payouts").Start(ctx, "payout.dispatch")
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_SamplingRatios(t *testing.T) {
	ctx := context.Background()
	for _, ratio := range []float64{0.0, 0.5, 1.0} {
		cfg := disabledTracerConfig()
		cfg.SamplingRatio = ratio

		tp, err := telemetry.NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.False(t, tp.IsEnabled())
		assert.NoError(t, tp.Shutdown(ctx))
	}
}

func TestTracerProvider_SpanProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("no-op while telemetry is disabled", func(t *testing.T) {
		tp, err := telemetry.NewTracerProvider(ctx, disabledTracerConfig(), zaptest.NewLogger(t))
		require.NoError(t, err)
		defer func() { _ = tp.Shutdown(ctx) }()

		assert.False(t, tp.IsSpanProfilesEnabled())
		assert.NoError(t, tp.EnableSpanProfiles())
		assert.False(t, tp.IsSpanProfilesEnabled())
	})

	t.Run("idempotent against concurrent callers", func(t *testing.T) {
		tp, err := telemetry.NewTracerProvider(ctx, disabledTracerConfig(), zaptest.NewLogger(t))
		require.NoError(t, err)
		defer func() { _ = tp.Shutdown(ctx) }()

		done := make(chan struct{})
		for i := 0; i < 10; i++ {
			go func() {
				defer func() { done <- struct{}{} }()
				_ = tp.EnableSpanProfiles()
				_ = tp.IsSpanProfilesEnabled()
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}
		assert.False(t, tp.IsSpanProfilesEnabled())
	})

	t.Run("spans carry profile labels once enabled", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping integration test in short mode")
		}

		cfg := disabledTracerConfig()
		cfg.Enabled = true
		tp, err := telemetry.NewTracerProvider(ctx, cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer func() { _ = tp.Shutdown(ctx) }()

		require.NoError(t, tp.EnableSpanProfiles())
		assert.True(t, tp.IsSpanProfilesEnabled())

		_, span := tp.Tracer("settlement").Start(ctx, "settlement.generate")
		time.Sleep(15 * time.Millisecond)
		span.End()

		assert.NoError(t, tp.ForceFlush(ctx))
	})
}
