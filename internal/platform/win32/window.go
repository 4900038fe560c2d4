//go:build windows

package win32

import (
	"sync"
	"syscall"

	"github.com/darkframe/darkframe/internal/platform"
	"golang.org/x/sys/windows"
)

// windowService queries window handles through user32. Every method
// tolerates stale handles: a query on a destroyed window reports invalid.
type windowService struct{}

func (s *windowService) IsWindow(h platform.Handle) bool {
	ret, _, _ := procIsWindow.Call(uintptr(h))
	return ret != 0
}

func (s *windowService) Styles(h platform.Handle) (platform.StyleFlags, error) {
	style, err := getWindowLong(h, gwlStyle)
	if err != nil {
		return platform.StyleFlags{}, err
	}
	exStyle, err := getWindowLong(h, gwlExStyle)
	if err != nil {
		return platform.StyleFlags{}, err
	}

	return platform.StyleFlags{
		Caption:    style&wsCaption != 0,
		Child:      style&wsChild != 0,
		ToolWindow: exStyle&wsExToolWindow != 0,
	}, nil
}

func getWindowLong(h platform.Handle, index uintptr) (uint32, error) {
	// GetWindowLongW signals failure through last-error, and a zero style is
	// legal; clear the thread's last-error first so a stale errno from an
	// earlier call cannot masquerade as a failure.
	procSetLastError.Call(0)
	ret, _, lastErr := procGetWindowLongW.Call(uintptr(h), index)
	if ret == 0 {
		if errno, ok := lastErr.(syscall.Errno); ok && errno != 0 {
			return 0, lastErr
		}
	}
	return uint32(ret), nil
}

func (s *windowService) IsTopLevel(h platform.Handle) bool {
	parent, _, _ := procGetAncestor.Call(uintptr(h), gaParent)
	if parent == 0 {
		return true
	}
	desktop, _, _ := procGetDesktopWindow.Call()
	return parent == desktop
}

func (s *windowService) OwnerPID(h platform.Handle) (uint32, bool) {
	var pid uint32
	_, err := windows.GetWindowThreadProcessId(windows.HWND(h), &pid)
	if err != nil || pid == 0 {
		return 0, false
	}
	return pid, true
}

// EnumWindows needs a C-callable callback; syscall.NewCallback allocations
// are permanent, so a single package-level callback dispatches to the visit
// function of the enumeration in flight, serialized by enumMu.
var (
	enumMu      sync.Mutex
	enumVisit   func(platform.Handle) bool
	enumStopped bool
)

var enumCallback = syscall.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
	if enumVisit != nil && !enumVisit(platform.Handle(hwnd)) {
		enumStopped = true
		return 0
	}
	return 1 // continue enumeration
})

func (s *windowService) Enumerate(visit func(h platform.Handle) bool) error {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumVisit = visit
	enumStopped = false
	defer func() { enumVisit = nil }()

	ret, _, lastErr := procEnumWindows.Call(enumCallback, 0)
	if ret == 0 && !enumStopped {
		return lastErr
	}
	return nil
}
