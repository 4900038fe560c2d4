// Package stub provides a fallback platform implementation for systems
// without a supported window manager.
package stub

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/darkframe/darkframe/internal/platform"
)

func init() {
	// Register stub as fallback for non-Windows platforms
	// This will be overridden if a specific platform registers itself
	for _, os := range []string{"linux", "darwin", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris"} {
		platform.Register(os, func() platform.Platform {
			return New()
		})
	}
}

// Platform implements platform.Platform as a fallback for unsupported systems.
type Platform struct {
	name string
}

// New creates a new stub platform instance.
func New() *Platform {
	return &Platform{
		name: runtime.GOOS,
	}
}

// Name returns the platform identifier.
func (p *Platform) Name() string {
	return p.name
}

// IsSupported returns false as this is a fallback implementation.
func (p *Platform) IsSupported() bool {
	return false
}

// Theme returns the theme detection service (stub).
func (p *Platform) Theme() platform.ThemeService {
	return &stubThemeService{}
}

// Windows returns the window query service (stub).
func (p *Platform) Windows() platform.WindowService {
	return &stubWindowService{}
}

// Composer returns the titlebar composition service (stub).
func (p *Platform) Composer() platform.ComposerService {
	return &stubComposerService{}
}

// Intercept returns the interception installation service (stub).
func (p *Platform) Intercept() platform.InterceptService {
	return &stubInterceptService{}
}

// Process returns the process identity service.
func (p *Platform) Process() platform.ProcessService {
	return &stubProcessService{}
}

// Compile-time check that Platform implements platform.Platform.
var _ platform.Platform = (*Platform)(nil)

// stubThemeService always reports light and cannot watch for changes.
type stubThemeService struct{}

func (s *stubThemeService) Detect() platform.Theme {
	return platform.ThemeLight
}

func (s *stubThemeService) Watch(ctx context.Context) (<-chan platform.Theme, error) {
	return nil, fmt.Errorf("theme watching not supported on %s: %w", runtime.GOOS, platform.ErrUnsupported)
}

// stubWindowService sees no windows.
type stubWindowService struct{}

func (s *stubWindowService) IsWindow(h platform.Handle) bool { return false }

func (s *stubWindowService) Styles(h platform.Handle) (platform.StyleFlags, error) {
	return platform.StyleFlags{}, platform.ErrUnsupported
}

func (s *stubWindowService) IsTopLevel(h platform.Handle) bool { return false }

func (s *stubWindowService) OwnerPID(h platform.Handle) (uint32, bool) { return 0, false }

func (s *stubWindowService) Enumerate(visit func(h platform.Handle) bool) error {
	return nil
}

// stubComposerService refuses to touch anything.
type stubComposerService struct{}

func (s *stubComposerService) SetDarkTitlebar(h platform.Handle, enabled bool) error {
	return fmt.Errorf("titlebar theming not supported on %s: %w", runtime.GOOS, platform.ErrUnsupported)
}

func (s *stubComposerService) RedrawFrame(h platform.Handle) error {
	return fmt.Errorf("frame redraw not supported on %s: %w", runtime.GOOS, platform.ErrUnsupported)
}

// stubInterceptService cannot install interceptions.
type stubInterceptService struct{}

func (s *stubInterceptService) InstallCreateHook(h platform.CreateHandler) error {
	return fmt.Errorf("window-creation interception not supported on %s: %w", runtime.GOOS, platform.ErrUnsupported)
}

func (s *stubInterceptService) InstallMessageHook(h platform.MessageHandler) error {
	return fmt.Errorf("message interception not supported on %s: %w", runtime.GOOS, platform.ErrUnsupported)
}

func (s *stubInterceptService) Remove() {}

// stubProcessService reports the real process identity.
type stubProcessService struct{}

func (s *stubProcessService) PID() uint32 {
	return uint32(os.Getpid())
}

func (s *stubProcessService) ExecutablePath() (string, error) {
	return os.Executable()
}
