package instrument

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	ins, err := New(context.Background(), &Config{ServiceName: "otpgate"})
	require.NoError(t, err)

	_, span := ins.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	counter, err := ins.Meter("test").Int64Counter("noop")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.NoError(t, ins.Shutdown(context.Background()))
}

func TestNew_NilConfig(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	ins, err := New(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, ins.Tracer("test"))
}

func TestNew_EnabledRecordsSpans(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	// gRPC dials lazily, so no collector is needed to build the providers.
	ins, err := New(context.Background(), &Config{
		Enabled:          true,
		ServiceName:      "otpgate",
		OTLPEndpoint:     "http://127.0.0.1:1",
		TraceSampleRatio: 1,
	})
	require.NoError(t, err)

	_, span := ins.Tracer("test").Start(context.Background(), "sampled")
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = ins.Shutdown(ctx)
}

func TestProviders_ShutdownJoinsErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	calls := 0

	p := &providers{shutdowns: []func(context.Context) error{
		func(context.Context) error { calls++; return first },
		func(context.Context) error { calls++; return nil },
		func(context.Context) error { calls++; return second },
	}}

	err := p.Shutdown(context.Background())
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "http://localhost:4317"},
		{in: "collector:4317", want: "http://collector:4317"},
		{in: " http://collector:4317 ", want: "http://collector:4317"},
		{in: "https://otel.example.com:443", want: "https://otel.example.com:443"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, endpointURL(tt.in))
		})
	}
}

func TestSampleRatioAndInterval(t *testing.T) {
	assert.Equal(t, 0.0, sampleRatio(-1))
	assert.Equal(t, 0.25, sampleRatio(0.25))
	assert.Equal(t, 1.0, sampleRatio(7))

	assert.Equal(t, defaultMetricsInterval, metricsInterval(0))
	assert.Equal(t, 15*time.Second, metricsInterval(15*time.Second))
}
