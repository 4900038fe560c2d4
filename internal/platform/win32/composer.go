//go:build windows

package win32

import (
	"fmt"
	"unsafe"

	"github.com/darkframe/darkframe/internal/platform"
)

// composerService sets the per-window dark-titlebar attribute through the
// desktop compositor and forces the frame repaint that makes it visible.
type composerService struct{}

func (s *composerService) SetDarkTitlebar(h platform.Handle, enabled bool) error {
	value := int32(0)
	if enabled {
		value = 1
	}

	hr, _, _ := procDwmSetWindowAttribute.Call(
		uintptr(h),
		dwmwaUseImmersiveDarkMode,
		uintptr(unsafe.Pointer(&value)),
		unsafe.Sizeof(value),
	)
	if hr != 0 {
		// Attribute unknown before Windows 10 2004, or the window is gone.
		return fmt.Errorf("DwmSetWindowAttribute(%#x): HRESULT %#x", uintptr(h), hr)
	}
	return nil
}

func (s *composerService) RedrawFrame(h platform.Handle) error {
	ret, _, lastErr := procSetWindowPos.Call(uintptr(h), 0, 0, 0, 0, 0,
		swpFrameChanged|swpNoMove|swpNoSize|swpNoZOrder|swpNoOwnerZOrder)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos(%#x): %w", uintptr(h), lastErr)
	}
	return nil
}
