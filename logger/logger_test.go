package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expected := Discard()
		ctx := ContextWithLogger(context.Background(), expected)
		assert.Equal(t, expected, FromContext(ctx))
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerCtxKey, "not a logger")
		l := FromContext(ctx)
		require.NotNil(t, l)
	})
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected int
	}{
		{DebugLevel, -4},
		{InfoLevel, 0},
		{WarnLevel, 4},
		{ErrorLevel, 8},
		{DisabledLevel, 1000},
		{LogLevel("unknown"), 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, int(tc.level.ToCharmlogLevel()), tc.level.String())
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write text output with fields", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})
		l.With("component", "engine").Info("ingested", "chunks", 3)
		l.Debug("hidden")
		output := buf.String()
		assert.Contains(t, output, "ingested")
		assert.Contains(t, output, "component")
		assert.Contains(t, output, "chunks")
		assert.NotContains(t, output, "hidden")
	})

	t.Run("Should write JSON when enabled", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: DebugLevel, Output: &buf, JSON: true})
		l.Warn("slow query", "ms", 1200)
		output := buf.String()
		assert.Contains(t, output, `"msg":"slow query"`)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(output), "{"))
	})

	t.Run("Should discard everything", func(t *testing.T) {
		Discard().Error("nothing")
	})
}
