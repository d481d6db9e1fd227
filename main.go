package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"TimerBoard/audio"
	"TimerBoard/config"
	"TimerBoard/i18n"
	"TimerBoard/store"
	"TimerBoard/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func provideConfig() (*config.Config, error) {
	m, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	return m.GetConfig(), nil
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return newLogger(cfg.Log)
}

// bindLoggerSync flushes buffered log entries when the application stops.
// Sync on a terminal fails on some platforms, so its error is dropped.
func bindLoggerSync(log interface{ Sync() error }, lc fx.Lifecycle) {
	lc.Append(fx.StopHook(func() { _ = log.Sync() }))
}

func provideRegistry(log *zap.Logger) *store.Registry {
	return store.New(store.WithLogger(log))
}

func providePlayer(cfg *config.Config, log *zap.Logger, lc fx.Lifecycle) audio.Player {
	p := audio.New(cfg.Sound, log)
	if c, ok := p.(*audio.Chime); ok {
		lc.Append(fx.StopHook(c.Close))
	}
	return p
}

// bindAppManager ties the command loop to the application lifecycle.
func bindAppManager(a *AppManager, lc fx.Lifecycle) {
	lc.Append(fx.StartStopHook(a.Start, a.Shutdown))
}

// coreOptions are the components that do not need a display.
func coreOptions() fx.Option {
	return fx.Options(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideRegistry,
			providePlayer,
			NewAppManager,
		),
		fx.Invoke(
			func(log *zap.Logger, lc fx.Lifecycle) { bindLoggerSync(log, lc) },
			bindAppManager,
		),
	)
}

func themeVariant(name string) *fyne.ThemeVariant {
	var v fyne.ThemeVariant
	switch strings.ToLower(name) {
	case "dark":
		v = theme.VariantDark
	case "light":
		v = theme.VariantLight
	default:
		return nil
	}
	return &v
}

func provideWindow(a *AppManager, fyneApp fyne.App, cfg *config.Config, lc fx.Lifecycle) fyne.Window {
	if cfg.App.Language != "" {
		i18n.SetLang(cfg.App.Language)
	}
	fyneApp.Settings().SetTheme(ui.NewCustomTheme(ui.AccentColor, themeVariant(cfg.App.Theme)))

	ctx := a.Context(context.Background())
	w, list := ui.CreateMainWindow(ctx, a, fyneApp, cfg.App.Name,
		fyne.NewSize(float32(cfg.App.WindowWidth), float32(cfg.App.WindowHeight)))
	lc.Append(fx.StopHook(list.Close))
	return w
}

func main() {
	fyneApp := app.NewWithID("io.timerboard")
	fyneApp.SetIcon(theme.HistoryIcon())

	var w fyne.Window
	fxApp := fx.New(
		coreOptions(),
		fx.Provide(
			func() fyne.App { return fyneApp },
			provideWindow,
		),
		fx.Populate(&w),
	)
	if err := fxApp.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "timerboard: %v\n", err)
		os.Exit(1)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "timerboard: %v\n", err)
		os.Exit(1)
	}

	w.ShowAndRun()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := fxApp.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "timerboard: %v\n", err)
	}
}
