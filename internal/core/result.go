// Package core implements the titlebar theming agent.
package core

// Status is a snapshot of the agent and the windows it manages.
type Status struct {
	// Platform is the platform identifier.
	Platform string

	// Supported indicates if titlebar theming works on this platform.
	Supported bool

	// Mode is the effective theme mode (auto/light/dark).
	Mode string

	// Dark is the titlebar appearance the agent currently maintains.
	Dark bool

	// Excluded indicates the host process is on the denylist.
	Excluded bool

	// CreateHook indicates the window-creation interception is active.
	CreateHook bool

	// MessageHook indicates the message interception is active.
	MessageHook bool

	// PID is the host process identifier.
	PID uint32

	// Executable is the host process executable path.
	Executable string

	// ProcessWindows is the count of top-level windows owned by the process.
	ProcessWindows int

	// EligibleWindows is the count of those with a themeable titlebar.
	EligibleWindows int
}
