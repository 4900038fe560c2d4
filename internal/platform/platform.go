// Package platform provides OS-agnostic abstractions for the window system.
package platform

import "context"

// Theme represents the system color theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Handle identifies an OS window. The zero value means "no window".
type Handle uintptr

// StyleFlags describes the window style bits relevant to titlebar theming.
type StyleFlags struct {
	// Caption is set when the window style requests a titlebar.
	Caption bool

	// Child is set for child windows.
	Child bool

	// ToolWindow is set for tool windows (extended style).
	ToolWindow bool
}

// Window message identifiers observed by the agent.
const (
	// MsgSettingChange is the generic settings-change broadcast
	// (WM_SETTINGCHANGE).
	MsgSettingChange uint32 = 0x001A

	// MsgColorizationChanged is the compositor colorization-change
	// notification (WM_DWMCOLORIZATIONCOLORCHANGED).
	MsgColorizationChanged uint32 = 0x0320
)

// Message describes a window message routed through the default handler.
type Message struct {
	Window Handle
	ID     uint32
	WParam uintptr
	LParam uintptr
}

// Platform provides access to OS-specific window system services.
type Platform interface {
	// Name returns the platform identifier (e.g., "windows", "linux").
	Name() string

	// IsSupported returns true if this platform is fully supported.
	IsSupported() bool

	// Theme returns the theme detection service.
	Theme() ThemeService

	// Windows returns the window query service.
	Windows() WindowService

	// Composer returns the titlebar composition service.
	Composer() ComposerService

	// Intercept returns the interception installation service.
	Intercept() InterceptService

	// Process returns the current process identity service.
	Process() ProcessService
}

// ThemeService answers whether the system is currently in dark mode.
type ThemeService interface {
	// Detect returns the current system theme (light or dark). It never
	// fails; when the preference cannot be determined it reports light.
	Detect() Theme

	// Watch delivers a value whenever the system theme setting changes.
	// The channel is closed when ctx is cancelled. Platforms without a
	// change notification mechanism return ErrUnsupported.
	Watch(ctx context.Context) (<-chan Theme, error)
}

// WindowService queries window handles. All methods must tolerate stale or
// invalid handles and report them as invalid rather than failing.
type WindowService interface {
	// IsWindow reports whether the handle currently identifies a window.
	IsWindow(h Handle) bool

	// Styles returns the style flags of the window.
	Styles(h Handle) (StyleFlags, error)

	// IsTopLevel reports whether the window's parent is the desktop.
	IsTopLevel(h Handle) bool

	// OwnerPID returns the id of the process owning the window.
	OwnerPID(h Handle) (uint32, bool)

	// Enumerate visits every top-level window on the system. Returning
	// false from visit stops the enumeration.
	Enumerate(visit func(h Handle) bool) error
}

// ComposerService touches the OS painting surface. It is the only service
// with visible side effects on windows.
type ComposerService interface {
	// SetDarkTitlebar sets the per-window dark-titlebar attribute.
	SetDarkTitlebar(h Handle, enabled bool) error

	// RedrawFrame forces a non-moving, non-resizing frame redraw so an
	// attribute change becomes visible immediately.
	RedrawFrame(h Handle) error
}

// CreateForwarder invokes the original window-creation entry point and
// returns the handle it produced.
type CreateForwarder func() Handle

// CreateHandler wraps the window-creation entry point. Implementations must
// call next exactly once and return its result; window creation cannot be
// suppressed.
type CreateHandler func(next CreateForwarder) Handle

// MessageForwarder invokes the original default message handler and returns
// its result.
type MessageForwarder func() uintptr

// MessageHandler wraps the default window-message handler. Implementations
// must forward to next and return its result unchanged, regardless of the
// branch taken.
type MessageHandler func(msg Message, next MessageForwarder) uintptr

// InterceptService installs process-wide interceptions on the window
// system's creation and message entry points. The concrete mechanism is an
// adapter detail; an injecting host may supply its own implementation
// through this port.
type InterceptService interface {
	// InstallCreateHook intercepts top-level window creation.
	InstallCreateHook(h CreateHandler) error

	// InstallMessageHook intercepts default window-message handling.
	InstallMessageHook(h MessageHandler) error

	// Remove uninstalls any installed interceptions.
	Remove()
}

// ProcessService identifies the current process.
type ProcessService interface {
	// PID returns the current process id.
	PID() uint32

	// ExecutablePath returns the path of the running executable.
	ExecutablePath() (string, error)
}
