package logging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoggerPrefixAndDispatch(t *testing.T) {
	var messages []string
	record := func(format string, args ...interface{}) {
		messages = append(messages, fmt.Sprintf(format, args...))
	}

	logger := NewLogger("spawn: ", LogFuncs{
		Debugf: record,
		Infof:  record,
		Warnf:  record,
		Errorf: record,
	})

	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Warnf("warn %d", 3)
	logger.Errorf("error %d", 4)

	assert.Equal(t, []string{
		"spawn: debug 1",
		"spawn: info 2",
		"spawn: warn 3",
		"spawn: error 4",
	}, messages)
}

func TestLoggerLogLevelfTakesPrecedence(t *testing.T) {
	var levels []int
	logger := NewLogger("", LogFuncs{
		LogLevelf: func(level int, format string, args ...interface{}) {
			levels = append(levels, level)
		},
		Infof: func(format string, args ...interface{}) {
			t.Fatal("per-level func must not be called when LogLevelf is set")
		},
	})

	logger.Infof("message")
	logger.Errorf("message")

	assert.Equal(t, []int{LogLevelInfo, LogLevelError}, levels)
}

func TestNullLoggerDiscards(t *testing.T) {
	logger := NewNullLogger()

	// Must not panic with no sinks attached.
	logger.Debugf("dropped")
	logger.LogLevelf(LogLevelError, "dropped %d", 1)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"dpanic", zapcore.DPanicLevel},
		{"panic", zapcore.PanicLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLevel(tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}

	_, err := parseLevel("loud")
	assert.Error(t, err)
	_, err = parseLevel("INFO")
	assert.Error(t, err)
}

func TestNewZapLogger(t *testing.T) {
	logger, err := NewZapLogger("spawncli: ", ZapConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Infof("zap-backed logger works, value: %d", 42)

	_, err = NewZapLogger("", ZapConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = NewZapLogger("", ZapConfig{Format: "xml"})
	assert.Error(t, err)
}
