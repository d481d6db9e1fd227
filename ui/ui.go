package ui

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"
	"time"

	"TimerBoard/control"
	"TimerBoard/i18n"
	"TimerBoard/store"
	"TimerBoard/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// UI constants
const (
	FontSize     float32 = 18.0 // Timer name
	FontSizeTime float32 = 18.0 // Duration display

	RowHeight    = 44
	CornerRadius = 8.0
	GapButton    = 5
)

var (
	// BackgroundColor is the base background color for timer rows.
	BackgroundColor = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
)

// App is what the widgets need from the application. The registry itself is
// not part of it: widgets read it from the context they are built with.
type App interface {
	EnqueueCommand(cmd control.Command)
	HandleKeyRune(rune)
	SetStartButton(*widget.Button)
	SetStopButton(*widget.Button)
}

// TimerList renders the registry's timers and follows its updates.
type TimerList struct {
	mu    sync.RWMutex
	state timer.State

	list       *widget.List
	emptyLabel *widget.Label
	status     *canvas.Text
	content    fyne.CanvasObject
	cancel     func()
}

// NewTimerList builds the list for the registry found in ctx. It panics with
// a store.MisuseError if ctx carries no registry.
func NewTimerList(ctx context.Context, a App) *TimerList {
	reg := store.MustFromContext(ctx)

	tl := &TimerList{state: reg.Snapshot()}

	tl.list = widget.NewList(tl.Length, newTimerRow, tl.updateRow)
	tl.emptyLabel = widget.NewLabel(i18n.T("No timers yet"))
	tl.emptyLabel.Alignment = fyne.TextAlignCenter

	tl.status = canvas.NewText("", color.White)
	tl.status.TextSize = FontSize
	tl.status.TextStyle.Bold = true
	statusButton := NewTappableContainer(tl.status, func() {
		if tl.Snapshot().IsRunning {
			a.EnqueueCommand(control.StopTimers())
		} else {
			a.EnqueueCommand(control.StartTimers())
		}
	}, nil)

	tl.content = container.NewBorder(
		container.New(layout.NewCenterLayout(), statusButton),
		nil, nil, nil,
		container.NewStack(tl.emptyLabel, tl.list),
	)

	tl.cancel = reg.Subscribe(func(s timer.State) {
		tl.mu.Lock()
		tl.state = s
		tl.mu.Unlock()
		fyne.Do(tl.refresh)
	})
	tl.refresh()
	return tl
}

// Length returns the number of rows.
func (tl *TimerList) Length() int {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return len(tl.state.Timers)
}

// Snapshot returns the state the list currently renders.
func (tl *TimerList) Snapshot() timer.State {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return tl.state.Clone()
}

// StatusText returns the text of the run-flag badge for the state the list
// currently holds. Safe to call from any goroutine.
func (tl *TimerList) StatusText() string {
	return statusText(tl.Snapshot().IsRunning)
}

func statusText(running bool) string {
	if running {
		return i18n.T("Running")
	}
	return i18n.T("Stopped")
}

func (tl *TimerList) GetCanvasObject() fyne.CanvasObject {
	return tl.content
}

// Close stops following the registry.
func (tl *TimerList) Close() {
	tl.cancel()
}

func (tl *TimerList) refresh() {
	s := tl.Snapshot()

	tl.status.Text = statusText(s.IsRunning)
	if len(s.Timers) == 0 {
		tl.emptyLabel.Show()
	} else {
		tl.emptyLabel.Hide()
	}

	tl.status.Refresh()
	tl.list.Refresh()
}

// A row is Stack(filter, border, HBox(name, spacer, duration)).
func newTimerRow() fyne.CanvasObject {
	filter := canvas.NewRectangle(withAlpha(BackgroundColor, 0xa6))
	filter.CornerRadius = CornerRadius

	border := canvas.NewRectangle(color.Transparent)
	border.SetMinSize(fyne.NewSize(0, RowHeight))
	border.CornerRadius = CornerRadius

	name := canvas.NewText("", color.White)
	name.TextSize = FontSize

	duration := canvas.NewText("--:--", color.White)
	duration.TextSize = FontSizeTime
	duration.TextStyle.Monospace = true

	return container.NewStack(filter, border, container.NewPadded(container.NewHBox(name, layout.NewSpacer(), duration)))
}

func (tl *TimerList) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	tl.mu.RLock()
	if id < 0 || id >= len(tl.state.Timers) {
		tl.mu.RUnlock()
		return
	}
	t := tl.state.Timers[id]
	running := tl.state.IsRunning
	tl.mu.RUnlock()

	row := obj.(*fyne.Container)
	filter := row.Objects[0].(*canvas.Rectangle)
	hbox := row.Objects[2].(*fyne.Container).Objects[0].(*fyne.Container)
	name := hbox.Objects[0].(*canvas.Text)
	duration := hbox.Objects[2].(*canvas.Text)

	var opacity float64 = 0.65
	if running {
		opacity = 0.25
	}
	filter.FillColor = withAlpha(BackgroundColor, uint8(opacity*255))
	name.Text = t.Name
	duration.Text = timer.FormatDuration(t.Duration)

	filter.Refresh()
	name.Refresh()
	duration.Refresh()
}

// AddTimerForm collects a name and a duration and posts an add command.
type AddTimerForm struct {
	NameEntry     *widget.Entry
	DurationEntry *widget.Entry
	Form          *widget.Form
}

// NewAddTimerForm builds the form. Parse errors are shown on w when w is
// not nil.
func NewAddTimerForm(a App, w fyne.Window) *AddTimerForm {
	f := &AddTimerForm{
		NameEntry:     widget.NewEntry(),
		DurationEntry: widget.NewEntry(),
	}
	f.NameEntry.SetPlaceHolder(i18n.T("Name"))
	f.DurationEntry.SetPlaceHolder(i18n.T("mm:ss or seconds"))

	f.Form = &widget.Form{
		Items: []*widget.FormItem{
			{Text: i18n.T("Name"), Widget: f.NameEntry},
			{Text: i18n.T("Duration"), Widget: f.DurationEntry},
		},
		SubmitText: i18n.T("Add Timer"),
		OnSubmit: func() {
			if err := f.Submit(a); err != nil && w != nil {
				dialog.ShowError(err, w)
			}
		},
	}
	f.DurationEntry.OnSubmitted = func(string) { f.Form.OnSubmit() }
	return f
}

// Submit parses the entries, posts the add command and clears the form.
func (f *AddTimerForm) Submit(a App) error {
	val, err := parseDuration(f.DurationEntry.Text)
	if err != nil {
		return fmt.Errorf("%s: %w", i18n.T("Invalid duration"), err)
	}

	enqueueAndWait(a, control.AddTimer(timer.Timer{Name: f.NameEntry.Text, Duration: val}))

	f.NameEntry.SetText("")
	f.DurationEntry.SetText("")
	return nil
}

// parseDuration accepts "mm:ss" or a plain number of seconds. It only checks
// syntax; the registry places no constraint on the value.
func parseDuration(input string) (int, error) {
	input = strings.TrimSpace(input)
	if !strings.Contains(input, ":") {
		val, err := strconv.Atoi(input)
		if err != nil {
			return 0, fmt.Errorf("invalid time format")
		}
		return val, nil
	}

	parts := strings.Split(input, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format")
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes")
	}
	sec, err := strconv.Atoi(parts[1])
	if err != nil || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("invalid seconds (must be 0-59)")
	}
	// The sign belongs to the whole value, so "-0:30" is -30.
	neg := strings.HasPrefix(parts[0], "-")
	if neg {
		mins = -mins
	}
	total := mins*60 + sec
	if neg {
		total = -total
	}
	return total, nil
}

// enqueueAndWait posts cmd and waits briefly for the command loop so the
// widgets observe the new state on their next refresh.
func enqueueAndWait(a App, cmd control.Command) {
	cmd = cmd.WithReply()
	a.EnqueueCommand(cmd)
	select {
	case <-cmd.Reply:
	case <-time.After(200 * time.Millisecond):
	}
}

// BuildFooter builds the Start/Stop buttons. Exactly one of them is visible;
// running selects which one initially.
func BuildFooter(a App, running bool) fyne.CanvasObject {
	startButton := widget.NewButton(i18n.T("Start"), func() {
		enqueueAndWait(a, control.StartTimers())
	})

	stopButton := widget.NewButton(i18n.T("Stop"), func() {
		enqueueAndWait(a, control.StopTimers())
	})
	if running {
		startButton.Hide()
	} else {
		stopButton.Hide()
	}

	a.SetStartButton(startButton)
	a.SetStopButton(stopButton)

	controlStack := container.NewStack(startButton, stopButton)

	return container.NewHBox(
		layout.NewSpacer(),
		controlStack,
		layout.NewSpacer(),
	)
}

// CreateMainWindow builds the window. ctx must carry the registry the
// widgets share.
func CreateMainWindow(ctx context.Context, a App, fyneApp fyne.App, title string, size fyne.Size) (fyne.Window, *TimerList) {
	if title == "" {
		title = fyneApp.Metadata().Name
	}
	if title == "" {
		title = "TimerBoard"
	}
	w := fyneApp.NewWindow(title)

	list := NewTimerList(ctx, a)
	form := NewAddTimerForm(a, w)
	footer := BuildFooter(a, list.Snapshot().IsRunning)

	w.Canvas().SetOnTypedRune(a.HandleKeyRune)

	bottomSpacer := canvas.NewRectangle(color.Transparent)
	bottomSpacer.SetMinSize(fyne.NewSize(0, GapButton))

	content := container.NewBorder(
		form.Form,
		container.NewVBox(bottomSpacer, footer),
		nil, nil,
		list.GetCanvasObject(),
	)

	w.SetContent(content)
	w.Resize(size)
	return w, list
}

type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewHBox(t.Content, layout.NewSpacer()))
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}

func withAlpha(c color.Color, alpha uint8) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
