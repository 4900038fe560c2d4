package core

import (
	"context"
	"time"

	"github.com/darkframe/darkframe/internal/config"
	"github.com/darkframe/darkframe/internal/exclusion"
	"github.com/darkframe/darkframe/internal/platform"
	"github.com/darkframe/darkframe/internal/state"
)

// Agent keeps the process's top-level titlebars synchronized with the system
// theme. It intercepts window creation to theme new windows before first
// paint, and the message stream to react to theme-change broadcasts.
type Agent struct {
	config   *config.Config
	platform platform.Platform
	state    *state.State
	filter   *exclusion.Filter

	// Options
	modeOverride config.Mode
	logf         func(format string, args ...any)
	dryRun       bool
}

// Option is a function that configures the Agent.
type Option func(*Agent)

// WithModeOverride forces the theme mode regardless of configuration.
func WithModeOverride(mode config.Mode) Option {
	return func(a *Agent) {
		a.modeOverride = mode
	}
}

// WithLogf sets the diagnostic log sink.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(a *Agent) {
		a.logf = logf
	}
}

// WithDryRun enables dry-run mode: eligibility and theme decisions are made
// but no window is modified.
func WithDryRun(dryRun bool) Option {
	return func(a *Agent) {
		a.dryRun = dryRun
	}
}

// New creates a new Agent instance on the current platform.
func New(cfg *config.Config, opts ...Option) *Agent {
	a := &Agent{
		config:   cfg,
		platform: platform.Current(),
		state:    state.New(),
		logf:     func(string, ...any) {},
	}

	for _, opt := range opts {
		opt(a)
	}

	a.filter = exclusion.New(cfg.Exclude, a.platform.Process().ExecutablePath)

	return a
}

// Init seeds the theme cache and installs both interceptions. It always
// reports success: a failed hook leaves the agent degraded but alive, so the
// other interception path keeps working.
func (a *Agent) Init() bool {
	if a.filter.Excluded() {
		a.logf("process excluded, agent inert")
		return true
	}

	a.state.SetDark(a.queryDark())
	a.logf("initial theme: %s", themeName(a.state.Dark()))

	intercept := a.platform.Intercept()

	if err := intercept.InstallCreateHook(a.onWindowCreated); err != nil {
		a.logf("create interception failed: %v", err)
		a.state.SetCreateHook(false)
	} else {
		a.state.SetCreateHook(true)
	}

	if err := intercept.InstallMessageHook(a.onMessage); err != nil {
		a.logf("message interception failed: %v", err)
		a.state.SetMessageHook(false)
	} else {
		a.state.SetMessageHook(true)
	}

	return true
}

// AfterInit brings windows that existed before Init under management.
func (a *Agent) AfterInit() {
	if a.filter.Excluded() {
		return
	}
	a.ApplyAll(a.state.Dark())
}

// Uninit restores default titlebars and removes the interceptions.
func (a *Agent) Uninit() {
	if a.filter.Excluded() {
		return
	}
	a.ApplyAll(false)
	a.platform.Intercept().Remove()
	a.state.SetCreateHook(false)
	a.state.SetMessageHook(false)
}

// queryDark resolves the desired appearance: explicit override first, then
// the configured mode, then the system theme.
func (a *Agent) queryDark() bool {
	switch a.mode() {
	case config.ModeDark:
		return true
	case config.ModeLight:
		return false
	default:
		return a.platform.Theme().Detect() == platform.ThemeDark
	}
}

func (a *Agent) mode() config.Mode {
	if a.modeOverride != "" {
		return a.modeOverride
	}
	if a.config.Mode != "" {
		return a.config.Mode
	}
	return config.ModeAuto
}

// onWindowCreated is the creation interception. The original creation path
// always runs and its handle is always returned; theming happens after, on
// the fresh handle, so the titlebar is correct before first paint.
func (a *Agent) onWindowCreated(next platform.CreateForwarder) platform.Handle {
	h := next()

	a.safely(func() {
		if h == 0 || a.filter.Excluded() {
			return
		}
		if !a.Eligible(h) {
			return
		}
		a.logf("new window %#x", uintptr(h))
		a.applyWindow(h, a.state.Dark())
	})

	return h
}

// onMessage is the message interception. It watches for theme-change
// broadcasts and otherwise stays out of the way; the original handler runs
// for every message and its result is returned unchanged.
func (a *Agent) onMessage(msg platform.Message, next platform.MessageForwarder) uintptr {
	a.safely(func() {
		if a.filter.Excluded() {
			return
		}
		if msg.ID != platform.MsgSettingChange && msg.ID != platform.MsgColorizationChanged {
			return
		}
		a.SyncTheme()
	})

	return next()
}

// safely confines panics to the agent. A panic escaping into the window
// system's call chain would take the host process down.
func (a *Agent) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.logf("recovered: %v", r)
		}
	}()
	fn()
}

// SyncTheme re-queries the theme and, when it changed, re-themes every
// managed window. Reports whether a transition happened; redundant
// broadcasts are suppressed by the state cell.
func (a *Agent) SyncTheme() bool {
	if a.filter.Excluded() {
		return false
	}

	dark := a.queryDark()
	if !a.state.Flip(dark) {
		return false
	}

	a.logf("theme changed: %s", themeName(dark))
	a.ApplyAll(dark)
	return true
}

// ApplyAll applies the appearance to every eligible top-level window owned
// by this process and returns how many were updated.
func (a *Agent) ApplyAll(dark bool) int {
	if a.filter.Excluded() {
		return 0
	}

	windows := a.platform.Windows()
	pid := a.platform.Process().PID()

	applied := 0
	err := windows.Enumerate(func(h platform.Handle) bool {
		if !windows.IsTopLevel(h) {
			return true
		}
		owner, ok := windows.OwnerPID(h)
		if !ok || owner != pid {
			return true
		}
		if a.applyWindow(h, dark) {
			applied++
		}
		return true
	})
	if err != nil {
		a.logf("enumeration failed: %v", err)
	}

	return applied
}

// applyWindow themes a single window. Ineligible windows are skipped, a
// composition failure is logged and reported, a redraw failure is only
// logged since the attribute already took.
func (a *Agent) applyWindow(h platform.Handle, dark bool) bool {
	if !a.Eligible(h) {
		return false
	}

	if a.dryRun {
		a.logf("dry-run: would set %#x to %s", uintptr(h), themeName(dark))
		return true
	}

	composer := a.platform.Composer()
	if err := composer.SetDarkTitlebar(h, dark); err != nil {
		a.logf("set titlebar %#x: %v", uintptr(h), err)
		return false
	}
	if err := composer.RedrawFrame(h); err != nil {
		a.logf("redraw %#x: %v", uintptr(h), err)
	}
	return true
}

// Eligible reports whether the window has a themeable titlebar: valid,
// captioned, not a child, not a tool window.
func (a *Agent) Eligible(h platform.Handle) bool {
	if h == 0 {
		return false
	}

	windows := a.platform.Windows()
	if !windows.IsWindow(h) {
		return false
	}

	styles, err := windows.Styles(h)
	if err != nil {
		return false
	}
	return styles.Caption && !styles.Child && !styles.ToolWindow
}

// Dark reports the appearance the agent currently maintains.
func (a *Agent) Dark() bool {
	return a.state.Dark()
}

// Excluded reports whether the host process is denylisted.
func (a *Agent) Excluded() bool {
	return a.filter.Excluded()
}

// Status collects a diagnostic snapshot.
func (a *Agent) Status() *Status {
	exe, _ := a.platform.Process().ExecutablePath()

	st := &Status{
		Platform:    a.platform.Name(),
		Supported:   a.platform.IsSupported(),
		Mode:        string(a.mode()),
		Dark:        a.state.Dark(),
		Excluded:    a.filter.Excluded(),
		CreateHook:  a.state.CreateHook(),
		MessageHook: a.state.MessageHook(),
		PID:         a.platform.Process().PID(),
		Executable:  exe,
	}

	windows := a.platform.Windows()
	pid := st.PID
	_ = windows.Enumerate(func(h platform.Handle) bool {
		if !windows.IsTopLevel(h) {
			return true
		}
		owner, ok := windows.OwnerPID(h)
		if !ok || owner != pid {
			return true
		}
		st.ProcessWindows++
		if a.Eligible(h) {
			st.EligibleWindows++
		}
		return true
	})

	return st
}

// Run drives the agent until ctx is cancelled: install, theme existing
// windows, then follow theme changes. On exit the titlebars are restored
// when the configuration asks for it.
func (a *Agent) Run(ctx context.Context) error {
	a.Init()
	a.AfterInit()
	defer func() {
		if a.config.RestoreOnExit {
			a.Uninit()
		} else {
			a.platform.Intercept().Remove()
		}
	}()

	if a.filter.Excluded() || !a.config.Watch.Enabled {
		<-ctx.Done()
		return ctx.Err()
	}

	changes, err := a.platform.Theme().Watch(ctx)
	if err != nil {
		a.logf("theme watch unavailable, polling: %v", err)
		return a.poll(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			a.SyncTheme()
		}
	}
}

// poll is the fallback when the platform has no change notifications.
func (a *Agent) poll(ctx context.Context) error {
	if a.config.Watch.PollSeconds <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(time.Duration(a.config.Watch.PollSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.SyncTheme()
		}
	}
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
