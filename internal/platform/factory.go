package platform

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sync"
)

var ErrUnsupported = errors.New("operation not supported on this platform")

type platformBuilder func() Platform

var (
	registry     = make(map[string]platformBuilder)
	registryLock sync.RWMutex
)

func Register(osName string, builder platformBuilder) {
	registryLock.Lock()
	defer registryLock.Unlock()
	registry[osName] = builder
}

var (
	current     Platform
	currentOnce sync.Once
)

func Current() Platform {
	currentOnce.Do(func() {
		current = newPlatform()
	})
	return current
}

func newPlatform() Platform {
	registryLock.RLock()
	defer registryLock.RUnlock()

	if builder, ok := registry[runtime.GOOS]; ok {
		return builder()
	}

	return &unsupportedPlatform{name: runtime.GOOS}
}

type unsupportedPlatform struct {
	name string
}

func (p *unsupportedPlatform) Name() string                { return p.name }
func (p *unsupportedPlatform) IsSupported() bool           { return false }
func (p *unsupportedPlatform) Theme() ThemeService         { return &unsupportedTheme{} }
func (p *unsupportedPlatform) Windows() WindowService      { return &unsupportedWindows{} }
func (p *unsupportedPlatform) Composer() ComposerService   { return &unsupportedComposer{} }
func (p *unsupportedPlatform) Intercept() InterceptService { return &unsupportedIntercept{} }
func (p *unsupportedPlatform) Process() ProcessService     { return &unsupportedProcess{} }

type unsupportedTheme struct{}

func (s *unsupportedTheme) Detect() Theme { return ThemeLight }
func (s *unsupportedTheme) Watch(ctx context.Context) (<-chan Theme, error) {
	return nil, ErrUnsupported
}

type unsupportedWindows struct{}

func (s *unsupportedWindows) IsWindow(h Handle) bool              { return false }
func (s *unsupportedWindows) Styles(h Handle) (StyleFlags, error) { return StyleFlags{}, ErrUnsupported }
func (s *unsupportedWindows) IsTopLevel(h Handle) bool            { return false }
func (s *unsupportedWindows) OwnerPID(h Handle) (uint32, bool)    { return 0, false }
func (s *unsupportedWindows) Enumerate(func(h Handle) bool) error { return ErrUnsupported }

type unsupportedComposer struct{}

func (s *unsupportedComposer) SetDarkTitlebar(h Handle, enabled bool) error { return ErrUnsupported }
func (s *unsupportedComposer) RedrawFrame(h Handle) error                   { return ErrUnsupported }

type unsupportedIntercept struct{}

func (s *unsupportedIntercept) InstallCreateHook(h CreateHandler) error   { return ErrUnsupported }
func (s *unsupportedIntercept) InstallMessageHook(h MessageHandler) error { return ErrUnsupported }
func (s *unsupportedIntercept) Remove()                                   {}

type unsupportedProcess struct{}

func (s *unsupportedProcess) PID() uint32 { return uint32(os.Getpid()) }
func (s *unsupportedProcess) ExecutablePath() (string, error) {
	return os.Executable()
}

func SetPlatform(p Platform) {
	currentOnce.Do(func() {})
	current = p
}

func ResetPlatform() {
	currentOnce = sync.Once{}
	current = nil
}
