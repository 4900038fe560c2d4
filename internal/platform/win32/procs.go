//go:build windows

package win32

import "golang.org/x/sys/windows"

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	dwmapi   = windows.NewLazySystemDLL("dwmapi.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procIsWindow            = user32.NewProc("IsWindow")
	procGetWindowLongW      = user32.NewProc("GetWindowLongW")
	procGetAncestor         = user32.NewProc("GetAncestor")
	procGetDesktopWindow    = user32.NewProc("GetDesktopWindow")
	procEnumWindows         = user32.NewProc("EnumWindows")
	procSetWindowPos        = user32.NewProc("SetWindowPos")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")

	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")

	procSetLastError = kernel32.NewProc("SetLastError")
)

// GetWindowLongW indexes (negative values, passed sign-extended).
var (
	gwlStyle   = ^uintptr(15) // GWL_STYLE (-16)
	gwlExStyle = ^uintptr(19) // GWL_EXSTYLE (-20)
)

const (
	wsCaption      = 0x00C00000 // WS_CAPTION
	wsChild        = 0x40000000 // WS_CHILD
	wsExToolWindow = 0x00000080 // WS_EX_TOOLWINDOW

	// DWMWA_USE_IMMERSIVE_DARK_MODE, supported since Windows 10 2004.
	dwmwaUseImmersiveDarkMode = 20

	swpNoSize        = 0x0001
	swpNoMove        = 0x0002
	swpNoZOrder      = 0x0004
	swpFrameChanged  = 0x0020
	swpNoOwnerZOrder = 0x0200

	gaParent = 1 // GA_PARENT

	whCallWndProc = 4 // WH_CALLWNDPROC
	whCBT         = 5 // WH_CBT
	hcbtCreateWnd = 3 // HCBT_CREATEWND
)
