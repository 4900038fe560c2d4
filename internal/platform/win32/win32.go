//go:build windows

// Package win32 provides the Windows implementation of the platform ports.
//
// The interception adapter uses SetWindowsHookEx scoped to the installing
// thread; an injecting host with its own patching mechanism can substitute
// a different InterceptService through the platform port.
package win32

import (
	"os"

	"github.com/darkframe/darkframe/internal/platform"
	"golang.org/x/sys/windows"
)

func init() {
	platform.Register("windows", func() platform.Platform {
		return New()
	})
}

// Platform implements platform.Platform for Windows.
type Platform struct {
	theme     *themeService
	windows   *windowService
	composer  *composerService
	intercept *interceptService
	process   *processService
}

// New creates a new Windows platform instance.
func New() *Platform {
	return &Platform{
		theme:     newThemeService(),
		windows:   &windowService{},
		composer:  &composerService{},
		intercept: &interceptService{},
		process:   &processService{},
	}
}

// Name returns the platform identifier.
func (p *Platform) Name() string {
	return "windows"
}

// IsSupported returns true as Windows is fully supported.
func (p *Platform) IsSupported() bool {
	return true
}

// Theme returns the theme detection service.
func (p *Platform) Theme() platform.ThemeService {
	return p.theme
}

// Windows returns the window query service.
func (p *Platform) Windows() platform.WindowService {
	return p.windows
}

// Composer returns the titlebar composition service.
func (p *Platform) Composer() platform.ComposerService {
	return p.composer
}

// Intercept returns the interception installation service.
func (p *Platform) Intercept() platform.InterceptService {
	return p.intercept
}

// Process returns the process identity service.
func (p *Platform) Process() platform.ProcessService {
	return p.process
}

// Compile-time check that Platform implements platform.Platform.
var _ platform.Platform = (*Platform)(nil)

type processService struct{}

func (s *processService) PID() uint32 {
	return windows.GetCurrentProcessId()
}

func (s *processService) ExecutablePath() (string, error) {
	return os.Executable()
}
