package store

import (
	"TimerBoard/timer"

	"go.uber.org/zap"
)

func lfdAction(a timer.Action) zap.Field {
	if a == nil {
		return zap.String("action", "<nil>")
	}
	return zap.Stringer("action", a.Type())
}

func lfdRunning(running bool) zap.Field {
	return zap.Bool("running", running)
}

func lfdTimerCount(n int) zap.Field {
	return zap.Int("timers", n)
}
