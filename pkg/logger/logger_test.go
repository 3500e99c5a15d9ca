package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zapcore.Level
	}{
		{in: "debug", expected: zapcore.DebugLevel},
		{in: "INFO", expected: zapcore.InfoLevel},
		{in: "warning", expected: zapcore.WarnLevel},
		{in: "warn", expected: zapcore.WarnLevel},
		{in: "error", expected: zapcore.ErrorLevel},
		{in: "nonsense", expected: zapcore.InfoLevel},
		{in: "", expected: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.in))
		})
	}
}

func TestNewWithConfig_Console(t *testing.T) {
	l, err := NewWithConfig(Config{Level: "debug", Format: "console", OutputPath: "stderr", ServiceName: "userapp"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestWithContext_AddsRequestAndTraceIDs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx := WithTraceID(WithRequestID(context.Background(), "req-1"), "trace-1")
	WithContext(ctx, base).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "trace-1", fields["trace_id"])
}

func TestWithContext_NoIDsKeepsLogger(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, WithContext(context.Background(), base))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/userapp.v1.UserService/GetUser"}

	var seen string
	handler := func(ctx context.Context, req any) (any, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	}

	_, err := interceptor(context.Background(), nil, info, handler)
	require.NoError(t, err)
	assert.NotEmpty(t, seen)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "from-gateway"))
	_, err = interceptor(ctx, nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "from-gateway", seen)
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLoggerWithConfig(zap.New(core), 0.05, "warn")

	sqlFn := func() (string, int64) { return "SELECT * FROM users", 1 }

	// fast query at warn level is not logged
	gl.Trace(context.Background(), time.Now(), sqlFn, nil)
	assert.Equal(t, 0, logs.Len())

	// record not found is not an error
	gl.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len())

	gl.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "gorm slow query", logs.All()[0].Message)

	gl.Trace(context.Background(), time.Now(), sqlFn, errors.New("connection reset"))
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "gorm query error", logs.All()[1].Message)

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sqlFn, errors.New("ignored"))
	assert.Equal(t, 2, logs.Len())
}
