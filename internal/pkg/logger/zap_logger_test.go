package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := newWithCore(core)

	l.Info("TOOLS", "Tool executed", map[string]interface{}{"tool": "move_item"})
	l.Debug("TOOLS", "no details", nil)
	l.Error("TOOLS", "Tool failed", map[string]interface{}{"error": errors.New("boom").Error()})
	l.Warn("TOOLS", "warn keeps error in details only", map[string]interface{}{"error": "slow"})

	entries := logs.All()
	require.Len(t, entries, 4)

	first := entries[0].ContextMap()
	assert.Equal(t, "TOOLS", first["module"])
	assert.Equal(t, map[string]interface{}{"tool": "move_item"}, first["details"])

	assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[2].ContextMap()["error_ref"])

	_, hasRef := entries[3].ContextMap()["error_ref"]
	assert.False(t, hasRef)
}

func TestIsolatedLogger_WritesOnlyToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewIsolatedLogger(path)

	l.Info("AUDIT", "Tool executed", map[string]interface{}{"tool": "search_items"})
	l.Debug("AUDIT", "below file level", nil)
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"Tool executed"`)
	assert.Contains(t, string(data), `"tool":"search_items"`)
	assert.NotContains(t, string(data), "below file level")
}

func TestConsoleLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zapcore.Level
	}{
		{"warn", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"nonsense", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.raw)
			assert.Equal(t, tt.want, consoleLevel())
		})
	}
}
