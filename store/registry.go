// Package store holds the Timer Registry shared by the TimerBoard UI and the
// scope helpers used to hand it to UI builders.
//
// Maintenance notes:
//   - All state changes go through Dispatch, which applies timer.Reduce under
//     the write lock and queues the resulting snapshot. One goroutine at a
//     time drains the queue and calls listeners outside the lock, so
//     listeners see snapshots in dispatch order. A dispatch made while
//     another goroutine is draining (or from inside a listener) returns
//     before its listeners have run; the active drainer delivers it.
//   - Reads return copies. Never return r.state.Timers directly.
//   - A nil *Registry is the "unavailable" state: every method panics with
//     a *MisuseError. Use FromContext when a recoverable error is preferred.
package store

import (
	"sync"

	"TimerBoard/timer"

	"go.uber.org/zap"
)

// Listener receives the registry state after every dispatched action.
type Listener func(timer.State)

type subscription struct {
	id int
	fn Listener
}

// Registry is the in-memory store of timer definitions and the run flag.
type Registry struct {
	log *zap.Logger

	mu       sync.RWMutex
	state    timer.State
	pending  []timer.State // snapshots awaiting delivery, in dispatch order
	draining bool

	subMu  sync.Mutex
	subs   []subscription
	nextID int
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l.Named("registry")
		}
	}
}

// New creates a registry in the initial state.
func New(opts ...Option) *Registry {
	r := &Registry{
		log:   zap.NewNop(),
		state: timer.InitialState(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) mustBeAvailable(op string) {
	if r == nil {
		panic(misuse(op))
	}
}

// Dispatch applies a to the registry and notifies listeners.
func (r *Registry) Dispatch(a timer.Action) {
	r.mustBeAvailable("Dispatch")

	r.mu.Lock()
	r.state = timer.Reduce(r.state, a)
	snap := r.state.Clone()
	r.pending = append(r.pending, snap)
	owner := !r.draining
	r.draining = true
	r.mu.Unlock()

	r.log.Debug("action dispatched", lfdAction(a), lfdRunning(snap.IsRunning), lfdTimerCount(len(snap.Timers)))
	if owner {
		r.drain()
	}
}

// drain delivers queued snapshots until the queue is empty. Only the
// goroutine that set r.draining runs it.
func (r *Registry) drain() {
	finished := false
	defer func() {
		// A panicking listener must not leave the queue owned forever.
		if !finished {
			r.mu.Lock()
			r.pending = nil
			r.draining = false
			r.mu.Unlock()
		}
	}()

	for {
		r.mu.Lock()
		if len(r.pending) == 0 {
			r.pending = nil
			r.draining = false
			r.mu.Unlock()
			finished = true
			return
		}
		next := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()

		r.notify(next)
	}
}

// AddTimer appends t to the end of the timer list.
func (r *Registry) AddTimer(t timer.Timer) {
	r.mustBeAvailable("AddTimer")
	r.Dispatch(timer.AddTimerAction{Payload: t})
}

// StartTimers sets the run flag.
func (r *Registry) StartTimers() {
	r.mustBeAvailable("StartTimers")
	r.Dispatch(timer.StartTimersAction{})
}

// StopTimers clears the run flag.
func (r *Registry) StopTimers() {
	r.mustBeAvailable("StopTimers")
	r.Dispatch(timer.StopTimersAction{})
}

// Timers returns a copy of the timer list in insertion order.
func (r *Registry) Timers() []timer.Timer {
	r.mustBeAvailable("Timers")
	r.mu.RLock()
	defer r.mu.RUnlock()
	timers := make([]timer.Timer, len(r.state.Timers))
	copy(timers, r.state.Timers)
	return timers
}

// IsRunning reports the run flag.
func (r *Registry) IsRunning() bool {
	r.mustBeAvailable("IsRunning")
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.IsRunning
}

// Snapshot returns a consistent copy of the whole state.
func (r *Registry) Snapshot() timer.State {
	r.mustBeAvailable("Snapshot")
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone()
}

// Subscribe registers fn to be called after every dispatch. The returned
// function removes the subscription; calling it more than once is harmless.
func (r *Registry) Subscribe(fn Listener) (cancel func()) {
	r.mustBeAvailable("Subscribe")
	if fn == nil {
		return func() {}
	}

	r.subMu.Lock()
	id := r.nextID
	r.nextID++
	r.subs = append(r.subs, subscription{id: id, fn: fn})
	r.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.unsubscribe(id) })
	}
}

func (r *Registry) unsubscribe(id int) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return
		}
	}
}

func (r *Registry) notify(s timer.State) {
	// Copy listeners under lock to avoid holding it while they run.
	r.subMu.Lock()
	subs := make([]subscription, len(r.subs))
	copy(subs, r.subs)
	r.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(s.Clone())
	}
}
