package main

import (
	"strings"

	"TimerBoard/config"
	"TimerBoard/control"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the application logger from the log section of the
// configuration.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func lfdAction(cmd control.Command) zap.Field {
	if cmd.Action == nil {
		return zap.String("action", "<nil>")
	}
	return zap.Stringer("action", cmd.Action.Type())
}

func lfdTimerCount(n int) zap.Field {
	return zap.Int("timers", n)
}
