package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ===== ZAP BACKEND ADAPTER =====

// ZapConfig controls construction of the zap-backed logger
type ZapConfig struct {
	Level       string `yaml:"level,omitempty"`       // "debug", "info", "warn", "error"
	Format      string `yaml:"format,omitempty"`      // "console" or "json"
	Development bool   `yaml:"development,omitempty"` // enables development-mode niceties (stacktraces, caller)
}

// NewZapLogger creates a Logger backed by a zap SugaredLogger.
// The zap types stay hidden behind the Logger interface so callers
// never depend on the backend directly.
func NewZapLogger(prefix string, config ZapConfig) (Logger, error) {
	zapLogger, err := createZapLogger(config)
	if err != nil {
		return nil, err
	}

	sugar := zapLogger.Sugar()

	return NewLogger(prefix, LogFuncs{
		Debugf: sugar.Debugf,
		Infof:  sugar.Infof,
		Warnf:  sugar.Warnf,
		Errorf: sugar.Errorf,
	}), nil
}

func createZapLogger(config ZapConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if config.Level != "" {
		parsed, err := parseLevel(config.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var zapConfig zap.Config
	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	zapConfig.Level = zap.NewAtomicLevelAt(level)

	switch config.Format {
	case "", "console":
		zapConfig.Encoding = "console"
	case "json":
		zapConfig.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format %q", config.Format)
	}

	return zapConfig.Build()
}

// parseLevel maps a level name to its zapcore level.
// zapcore.ParseLevel postdates the zap release pinned here.
func parseLevel(levelStr string) (zapcore.Level, error) {
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	case "dpanic":
		return zapcore.DPanicLevel, nil
	case "panic":
		return zapcore.PanicLevel, nil
	default:
		return -1, fmt.Errorf("invalid log level %q", levelStr)
	}
}
