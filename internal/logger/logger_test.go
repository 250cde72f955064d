package logger

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_LevelSelection(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  log.Level
	}{
		{name: "debug", level: "debug", want: log.DebugLevel},
		{name: "info", level: "info", want: log.InfoLevel},
		{name: "warn", level: "warn", want: log.WarnLevel},
		{name: "error", level: "error", want: log.ErrorLevel},
		{name: "unknown falls back to info", level: "verbose", want: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, Configure(tt.level, "", false))
			assert.Equal(t, tt.want, Logger.GetLevel())
		})
	}
}

func TestNewStyledLogger(t *testing.T) {
	require.NoError(t, Configure("debug", "", false))

	styled := NewStyledLogger("Session")

	assert.Equal(t, "Session ", styled.GetPrefix())
	assert.Equal(t, log.DebugLevel, styled.GetLevel(), "component loggers inherit the global level")
}
