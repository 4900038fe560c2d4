// Package fake provides an in-memory window system for tests.
//
// The fake implements every platform service on a single struct: windows
// are plain records, the theme is scripted, and the interception installer
// calls handlers straight through, so the core can be exercised without an
// OS window system.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/darkframe/darkframe/internal/platform"
)

// MessageResult is what the fake's original message handler returns, so
// tests can verify that handlers forward and preserve the result.
const MessageResult uintptr = 0xC0DE

// Window is the fake's window record.
type Window struct {
	Styles   platform.StyleFlags
	PID      uint32
	TopLevel bool
	Valid    bool
	Dark     bool
}

// Platform is an in-memory window system.
type Platform struct {
	mu sync.Mutex

	theme    platform.Theme
	watchers []chan platform.Theme

	windows map[platform.Handle]*Window
	order   []platform.Handle

	pid    uint32
	exe    string
	exeErr error

	attrWrites int
	redraws    int

	createHandler platform.CreateHandler
	msgHandler    platform.MessageHandler
	createHookErr error
	msgHookErr    error
	composerErr   error
}

// New creates a fake platform owned by pid 4242 running an ordinary
// executable, with the theme set to light.
func New() *Platform {
	return &Platform{
		theme:   platform.ThemeLight,
		windows: make(map[platform.Handle]*Window),
		pid:     4242,
		exe:     `C:\Program Files\App\app.exe`,
	}
}

// Compile-time check that Platform implements platform.Platform.
var _ platform.Platform = (*Platform)(nil)

func (p *Platform) Name() string                         { return "fake" }
func (p *Platform) IsSupported() bool                    { return true }
func (p *Platform) Theme() platform.ThemeService         { return p }
func (p *Platform) Windows() platform.WindowService      { return p }
func (p *Platform) Composer() platform.ComposerService   { return p }
func (p *Platform) Intercept() platform.InterceptService { return p }
func (p *Platform) Process() platform.ProcessService     { return p }

// Scripting helpers

// SetTheme sets the theme the oracle reports.
func (p *Platform) SetTheme(theme platform.Theme) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = theme
}

// PushTheme sets the theme and notifies watchers.
func (p *Platform) PushTheme(theme platform.Theme) {
	p.mu.Lock()
	p.theme = theme
	watchers := append([]chan platform.Theme(nil), p.watchers...)
	p.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- theme:
		default:
		}
	}
}

// SetProcess overrides the fake's process identity.
func (p *Platform) SetProcess(pid uint32, exe string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pid = pid
	p.exe = exe
}

// FailExecutableLookup makes ExecutablePath fail.
func (p *Platform) FailExecutableLookup(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exeErr = err
}

// AddWindow registers a window without routing it through the creation
// interception. Valid defaults to true.
func (p *Platform) AddWindow(h platform.Handle, w Window) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addLocked(h, w)
}

func (p *Platform) addLocked(h platform.Handle, w Window) {
	if _, exists := p.windows[h]; !exists {
		p.order = append(p.order, h)
	}
	copied := w
	copied.Valid = true
	p.windows[h] = &copied
}

// DestroyWindow invalidates a handle, simulating concurrent destruction.
func (p *Platform) DestroyWindow(h platform.Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.windows[h]; ok {
		w.Valid = false
	}
}

// CreateWindow registers a window and routes it through the installed
// creation interception, the way the OS entry point would. Returns what the
// interception chain returned.
func (p *Platform) CreateWindow(h platform.Handle, w Window) platform.Handle {
	p.mu.Lock()
	handler := p.createHandler
	p.mu.Unlock()

	next := func() platform.Handle {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.addLocked(h, w)
		return h
	}

	if handler == nil {
		return next()
	}
	return handler(next)
}

// SendMessage routes a message through the installed message interception.
// The original handler returns MessageResult.
func (p *Platform) SendMessage(msg platform.Message) uintptr {
	p.mu.Lock()
	handler := p.msgHandler
	p.mu.Unlock()

	next := func() uintptr { return MessageResult }

	if handler == nil {
		return next()
	}
	return handler(msg, next)
}

// FailCreateHook makes InstallCreateHook fail with err.
func (p *Platform) FailCreateHook(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createHookErr = err
}

// FailMessageHook makes InstallMessageHook fail with err.
func (p *Platform) FailMessageHook(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgHookErr = err
}

// FailComposer makes SetDarkTitlebar fail with err.
func (p *Platform) FailComposer(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.composerErr = err
}

// Inspection helpers

// AttrWrites returns how many dark-titlebar attribute writes happened.
func (p *Platform) AttrWrites() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attrWrites
}

// Redraws returns how many frame redraws happened.
func (p *Platform) Redraws() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.redraws
}

// DarkOf returns the dark attribute of a window.
func (p *Platform) DarkOf(h platform.Handle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.windows[h]; ok {
		return w.Dark
	}
	return false
}

// HooksInstalled reports whether the creation and message interceptions are
// currently installed.
func (p *Platform) HooksInstalled() (create, message bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createHandler != nil, p.msgHandler != nil
}

// ThemeService

func (p *Platform) Detect() platform.Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme
}

func (p *Platform) Watch(ctx context.Context) (<-chan platform.Theme, error) {
	ch := make(chan platform.Theme, 8)

	p.mu.Lock()
	p.watchers = append(p.watchers, ch)
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		for i, w := range p.watchers {
			if w == ch {
				p.watchers = append(p.watchers[:i], p.watchers[i+1:]...)
				break
			}
		}
		p.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// WindowService

func (p *Platform) IsWindow(h platform.Handle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.windows[h]
	return ok && w.Valid
}

func (p *Platform) Styles(h platform.Handle) (platform.StyleFlags, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.windows[h]
	if !ok || !w.Valid {
		return platform.StyleFlags{}, fmt.Errorf("invalid window handle %#x", uintptr(h))
	}
	return w.Styles, nil
}

func (p *Platform) IsTopLevel(h platform.Handle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.windows[h]
	return ok && w.Valid && w.TopLevel
}

func (p *Platform) OwnerPID(h platform.Handle) (uint32, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.windows[h]
	if !ok || !w.Valid {
		return 0, false
	}
	return w.PID, true
}

func (p *Platform) Enumerate(visit func(h platform.Handle) bool) error {
	p.mu.Lock()
	handles := append([]platform.Handle(nil), p.order...)
	p.mu.Unlock()

	for _, h := range handles {
		if !visit(h) {
			break
		}
	}
	return nil
}

// ComposerService

func (p *Platform) SetDarkTitlebar(h platform.Handle, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.composerErr != nil {
		return p.composerErr
	}
	w, ok := p.windows[h]
	if !ok || !w.Valid {
		return fmt.Errorf("invalid window handle %#x", uintptr(h))
	}
	w.Dark = enabled
	p.attrWrites++
	return nil
}

func (p *Platform) RedrawFrame(h platform.Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.windows[h]
	if !ok || !w.Valid {
		return fmt.Errorf("invalid window handle %#x", uintptr(h))
	}
	p.redraws++
	return nil
}

// InterceptService

func (p *Platform) InstallCreateHook(h platform.CreateHandler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createHookErr != nil {
		return p.createHookErr
	}
	p.createHandler = h
	return nil
}

func (p *Platform) InstallMessageHook(h platform.MessageHandler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.msgHookErr != nil {
		return p.msgHookErr
	}
	p.msgHandler = h
	return nil
}

func (p *Platform) Remove() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createHandler = nil
	p.msgHandler = nil
}

// ProcessService

func (p *Platform) PID() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

func (p *Platform) ExecutablePath() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exeErr != nil {
		return "", p.exeErr
	}
	return p.exe, nil
}
