//go:build windows

package win32

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/darkframe/darkframe/internal/platform"
	"golang.org/x/sys/windows"
)

// cwpStruct mirrors CWPSTRUCT, the payload of a WH_CALLWNDPROC hook.
type cwpStruct struct {
	LParam  uintptr
	WParam  uintptr
	Message uint32
	Hwnd    uintptr
}

// interceptService installs the two interception points as windows hooks on
// the installing thread: WH_CBT observes window creation before first
// paint, WH_CALLWNDPROC observes messages routed to window procedures.
// Handlers receive the hook chain's forwarder as next, matching the
// intercept(original, replacement) contract of the port.
type interceptService struct {
	mu            sync.Mutex
	createHandler platform.CreateHandler
	msgHandler    platform.MessageHandler
	cbtHook       uintptr
	wndProcHook   uintptr
}

// The C-callable hook procedures are created once (syscall.NewCallback
// never releases its slot) and dispatch to the active service.
var (
	activeMu sync.Mutex
	active   *interceptService
)

func setActive(s *interceptService) {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = s
}

func activeService() *interceptService {
	activeMu.Lock()
	defer activeMu.Unlock()
	return active
}

var cbtCallback = syscall.NewCallback(func(code int32, wparam, lparam uintptr) uintptr {
	forward := func() uintptr {
		ret, _, _ := procCallNextHookEx.Call(0, uintptr(code), wparam, lparam)
		return ret
	}

	if code != hcbtCreateWnd {
		return forward()
	}

	svc := activeService()
	if svc == nil {
		return forward()
	}
	svc.mu.Lock()
	handler := svc.createHandler
	svc.mu.Unlock()
	if handler == nil {
		return forward()
	}

	// wparam is the handle of the window being created. Forwarding the
	// chain is the "call the original" step; its result must be returned so
	// a downstream hook's veto survives.
	var chainRet uintptr
	handler(func() platform.Handle {
		chainRet = forward()
		return platform.Handle(wparam)
	})
	return chainRet
})

var callWndProcCallback = syscall.NewCallback(func(code int32, wparam, lparam uintptr) uintptr {
	forward := func() uintptr {
		ret, _, _ := procCallNextHookEx.Call(0, uintptr(code), wparam, lparam)
		return ret
	}

	if code < 0 || lparam == 0 {
		return forward()
	}

	svc := activeService()
	if svc == nil {
		return forward()
	}
	svc.mu.Lock()
	handler := svc.msgHandler
	svc.mu.Unlock()
	if handler == nil {
		return forward()
	}

	cwp := (*cwpStruct)(unsafe.Pointer(lparam))
	msg := platform.Message{
		Window: platform.Handle(cwp.Hwnd),
		ID:     cwp.Message,
		WParam: cwp.WParam,
		LParam: cwp.LParam,
	}
	return handler(msg, forward)
})

func (s *interceptService) InstallCreateHook(h platform.CreateHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	setActive(s)

	if s.cbtHook == 0 {
		hook, _, lastErr := procSetWindowsHookExW.Call(
			whCBT, cbtCallback, 0, uintptr(windows.GetCurrentThreadId()))
		if hook == 0 {
			return fmt.Errorf("SetWindowsHookEx(WH_CBT): %w", lastErr)
		}
		s.cbtHook = hook
	}
	s.createHandler = h
	return nil
}

func (s *interceptService) InstallMessageHook(h platform.MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	setActive(s)

	if s.wndProcHook == 0 {
		hook, _, lastErr := procSetWindowsHookExW.Call(
			whCallWndProc, callWndProcCallback, 0, uintptr(windows.GetCurrentThreadId()))
		if hook == 0 {
			return fmt.Errorf("SetWindowsHookEx(WH_CALLWNDPROC): %w", lastErr)
		}
		s.wndProcHook = hook
	}
	s.msgHandler = h
	return nil
}

func (s *interceptService) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cbtHook != 0 {
		procUnhookWindowsHookEx.Call(s.cbtHook)
		s.cbtHook = 0
	}
	if s.wndProcHook != 0 {
		procUnhookWindowsHookEx.Call(s.wndProcHook)
		s.wndProcHook = 0
	}
	s.createHandler = nil
	s.msgHandler = nil

	activeMu.Lock()
	if active == s {
		active = nil
	}
	activeMu.Unlock()
}
