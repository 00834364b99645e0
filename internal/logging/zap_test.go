package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.All()
	require.Len(t, entries, 4)

	want := []struct {
		level zapcore.Level
		msg   string
		key   string
	}{
		{zapcore.DebugLevel, "dbg", "a"},
		{zapcore.InfoLevel, "inf", "b"},
		{zapcore.WarnLevel, "wrn", "c"},
		{zapcore.ErrorLevel, "err", "d"},
	}
	for i, w := range want {
		assert.Equal(t, w.level, entries[i].Level)
		assert.Equal(t, w.msg, entries[i].Message)
		assert.Contains(t, entries[i].ContextMap(), w.key)
	}
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := NewZapLogger(zap.New(core)).With("module", "rest")

	log.Info(context.Background(), "hello", "k", "v")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "rest", fields["module"])
	assert.Equal(t, "v", fields["k"])
}

func TestNew(t *testing.T) {
	for _, format := range []string{FormatSlog, FormatZap} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(format, &buf)
			require.NoError(t, err)

			log.Info(context.Background(), "started", "port", 3000)
			if z, ok := log.(*ZapLogger); ok {
				_ = z.Sync()
			}

			line := strings.TrimSpace(buf.String())
			var decoded map[string]any
			require.NoError(t, json.Unmarshal([]byte(line), &decoded))
			assert.Equal(t, float64(3000), decoded["port"])
		})
	}

	_, err := New("logfmt", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestZapLogger_AddsRequestIDFromContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := NewZapLogger(zap.New(core))

	log.Info(WithRequestID(context.Background(), "req-7"), "hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7", entries[0].ContextMap()[RequestIDKey])
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.Equal(t, "x", RequestID(WithRequestID(context.Background(), "x")))

	args := []any{"a", 1}
	out := withContextArgs(WithRequestID(context.Background(), "x"), args)
	assert.Equal(t, []any{"a", 1, RequestIDKey, "x"}, out)
	assert.Len(t, args, 2)
}
