// Package main contains the application wiring and the AppManager which
// coordinates the timer registry, audio and the UI.
//
// Maintenance notes / tips:
//   - Concurrency model: UI callbacks never mutate the registry directly.
//     They post control.Command values to `cmdCh` and a single command-loop
//     goroutine (see `commandLoop`) dispatches them in arrival order. The
//     registry is mutex protected as well, so reads from UI code are safe.
//   - Registry listeners run on the command-loop goroutine. Anything that
//     touches widgets from a listener must go through fyne.Do.
//   - `cmdCh` is buffered. The current implementation drops commands when the
//     channel stays full for 150ms to avoid blocking the UI.
package main

import (
	"context"
	"sync"
	"time"

	"TimerBoard/audio"
	"TimerBoard/control"
	"TimerBoard/store"
	"TimerBoard/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

const (
	commandBuffer  = 256
	enqueueTimeout = 150 * time.Millisecond
)

// AppManager is the main application struct, holding all state.
type AppManager struct {
	log      *zap.Logger
	registry *store.Registry
	player   audio.Player

	cmdCh     chan control.Command
	cmdCtx    context.Context
	cmdCancel context.CancelFunc
	loopDone  chan struct{}
	startOnce sync.Once

	buttonLock  sync.Mutex
	stopButton  *widget.Button
	startButton *widget.Button
	unsubscribe func()
}

// NewAppManager creates a new application manager around reg. The command
// loop is not running until Start is called.
func NewAppManager(reg *store.Registry, player audio.Player, log *zap.Logger) *AppManager {
	if player == nil {
		player = audio.Nop{}
	}
	a := &AppManager{
		log:      log.Named("app"),
		registry: reg,
		player:   player,
		cmdCh:    make(chan control.Command, commandBuffer),
		loopDone: make(chan struct{}),
	}
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	a.unsubscribe = reg.Subscribe(func(timer.State) {
		a.UpdateControlButtonState()
	})
	return a
}

// Context returns a copy of parent in which the manager's registry is
// available to widget builders.
func (a *AppManager) Context(parent context.Context) context.Context {
	return store.WithRegistry(parent, a.registry)
}

// Start launches the command loop. Calling it again has no effect.
func (a *AppManager) Start() {
	a.startOnce.Do(func() {
		go a.commandLoop()
		a.log.Info("command loop started", lfdTimerCount(len(a.registry.Timers())))
	})
}

// EnqueueCommand posts a command to the internal command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	// Try to enqueue the command but avoid blocking UI indefinitely. If the
	// channel stays full for the configured short timeout, drop and log.
	select {
	case a.cmdCh <- cmd:
	case <-time.After(enqueueTimeout):
		a.log.Warn("EnqueueCommand timeout: dropping command", lfdAction(cmd))
	}
}

func (a *AppManager) commandLoop() {
	defer close(a.loopDone)
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case cmd := <-a.cmdCh:
			a.apply(cmd)
			// send reply if requested
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- nil:
				default:
				}
			}
		}
	}
}

func (a *AppManager) apply(cmd control.Command) {
	if cmd.Action == nil {
		a.log.Warn("ignoring command without action")
		return
	}

	wasRunning := a.registry.IsRunning()
	a.registry.Dispatch(cmd.Action)
	isRunning := a.registry.IsRunning()

	switch {
	case isRunning && !wasRunning:
		a.player.Play(audio.CueStart)
	case !isRunning && wasRunning:
		a.player.Play(audio.CueStop)
	}
}

// UpdateControlButtonState shows exactly one of the Start and Stop buttons,
// chosen by the registry's run flag.
func (a *AppManager) UpdateControlButtonState() {
	running := a.registry.IsRunning()

	a.buttonLock.Lock()
	start, stop := a.startButton, a.stopButton
	a.buttonLock.Unlock()
	if start == nil || stop == nil {
		return
	}

	fyne.Do(func() {
		if running {
			start.Hide()
			stop.Show()
		} else {
			stop.Hide()
			start.Show()
		}
		start.Refresh()
		stop.Refresh()
	})
}

// HandleKeyRune handles key presses for the application.
func (a *AppManager) HandleKeyRune(r rune) {
	switch r {
	case ' ':
		a.buttonLock.Lock()
		start, stop := a.startButton, a.stopButton
		a.buttonLock.Unlock()

		if stop != nil && !stop.Hidden {
			stop.Tapped(&fyne.PointEvent{})
		} else if start != nil && !start.Hidden {
			start.Tapped(&fyne.PointEvent{})
		}
	}
}

// SetStartButton sets the start button widget.
func (a *AppManager) SetStartButton(btn *widget.Button) {
	a.buttonLock.Lock()
	defer a.buttonLock.Unlock()
	a.startButton = btn
}

// SetStopButton sets the stop button widget.
func (a *AppManager) SetStopButton(btn *widget.Button) {
	a.buttonLock.Lock()
	defer a.buttonLock.Unlock()
	a.stopButton = btn
}

// Shutdown attempts to gracefully stop the AppManager command loop. It
// cancels the internal context and waits for the loop to exit if it was
// started.
func (a *AppManager) Shutdown() {
	a.unsubscribe()
	started := true
	a.startOnce.Do(func() { started = false })
	a.cmdCancel()
	if started {
		<-a.loopDone
	}
	a.log.Info("command loop stopped")
}
