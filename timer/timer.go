// Package timer contains the domain model for TimerBoard: the Timer
// definition, the registry State and the actions that change it.
//
// Maintenance notes:
//   - Reduce is a pure function. It must never modify the State it receives;
//     every branch that changes the timer list builds a new slice.
//   - Timer values are immutable once added. There is no edit or delete
//     action.
package timer

// Timer is a single named timer definition.
type Timer struct {
	Name     string
	Duration int // not range checked; the UI shows it as seconds
}

// State is the full registry state.
type State struct {
	IsRunning bool
	Timers    []Timer
}

// InitialState returns the state a registry starts with.
func InitialState() State {
	return State{IsRunning: false, Timers: []Timer{}}
}

// Clone returns a copy of s that shares no memory with it.
func (s State) Clone() State {
	timers := make([]Timer, len(s.Timers))
	copy(timers, s.Timers)
	return State{IsRunning: s.IsRunning, Timers: timers}
}

// ActionType enumerates the supported actions.
type ActionType int

const (
	ActionStartTimers ActionType = iota
	ActionStopTimers
	ActionAddTimer
)

func (t ActionType) String() string {
	switch t {
	case ActionStartTimers:
		return "START_TIMERS"
	case ActionStopTimers:
		return "STOP_TIMERS"
	case ActionAddTimer:
		return "ADD_TIMER"
	}
	return "UNKNOWN"
}

// Action is a tagged description of a requested state change. The set of
// implementations is closed to this package.
type Action interface {
	Type() ActionType
	isAction()
}

// StartTimersAction sets the run flag.
type StartTimersAction struct{}

// StopTimersAction clears the run flag.
type StopTimersAction struct{}

// AddTimerAction appends Payload to the timer list.
type AddTimerAction struct {
	Payload Timer
}

func (StartTimersAction) Type() ActionType { return ActionStartTimers }
func (StopTimersAction) Type() ActionType  { return ActionStopTimers }
func (AddTimerAction) Type() ActionType    { return ActionAddTimer }

func (StartTimersAction) isAction() {}
func (StopTimersAction) isAction()  {}
func (AddTimerAction) isAction()    {}

// Reduce computes the state that follows s once a has been applied.
// Actions it does not recognise (including nil) return s unchanged.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case StartTimersAction:
		s.IsRunning = true
		return s
	case StopTimersAction:
		s.IsRunning = false
		return s
	case AddTimerAction:
		timers := make([]Timer, len(s.Timers), len(s.Timers)+1)
		copy(timers, s.Timers)
		s.Timers = append(timers, Timer{Name: act.Payload.Name, Duration: act.Payload.Duration})
		return s
	}
	return s
}
