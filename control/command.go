// Package control defines lightweight command messages used by the UI to
// request actions from the application command loop. The command-loop
// centralizes registry mutations so they are applied in arrival order.
package control

import "TimerBoard/timer"

// Command is the message sent from UI to AppManager.commandLoop. The
// optional Reply channel can be used by the commandLoop to confirm
// completion back to the sender (useful for keeping UI state in sync).
type Command struct {
	Action timer.Action
	Reply  chan error // optional reply channel
}

// AddTimer builds a command that appends t.
func AddTimer(t timer.Timer) Command {
	return Command{Action: timer.AddTimerAction{Payload: t}}
}

// StartTimers builds a command that sets the run flag.
func StartTimers() Command {
	return Command{Action: timer.StartTimersAction{}}
}

// StopTimers builds a command that clears the run flag.
func StopTimers() Command {
	return Command{Action: timer.StopTimersAction{}}
}

// WithReply returns a copy of c carrying a fresh buffered reply channel.
func (c Command) WithReply() Command {
	c.Reply = make(chan error, 1)
	return c
}
