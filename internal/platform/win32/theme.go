//go:build windows

package win32

import (
	"context"
	"sync"
	"syscall"

	"github.com/darkframe/darkframe/internal/oracle"
	"github.com/darkframe/darkframe/internal/platform"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	personalizeKey    = `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`
	appsUseLightTheme = "AppsUseLightTheme"

	// ShouldSystemUseDarkMode, exported by uxtheme.dll by ordinal only.
	shouldSystemUseDarkModeOrdinal = 138
)

// themeService answers dark-mode queries through a probe chain: the per-user
// registry preference is authoritative when readable, the undocumented
// uxtheme capability is the fallback, light is the default.
type themeService struct {
	chain *oracle.Chain

	// Resolved once, shared by all callers, lifetime = process.
	capOnce sync.Once
	capAddr uintptr
}

func newThemeService() *themeService {
	s := &themeService{}
	s.chain = oracle.NewChain(
		oracle.ProbeFunc{ProbeName: "registry", Fn: queryRegistry},
		oracle.ProbeFunc{ProbeName: "uxtheme", Fn: s.queryCapability},
	)
	return s
}

// Detect returns the current system theme. It never fails; when no probe
// answers it reports light.
func (s *themeService) Detect() platform.Theme {
	if s.chain.Dark() {
		return platform.ThemeDark
	}
	return platform.ThemeLight
}

// queryRegistry reads the per-user light-theme flag. 0 means dark mode.
func queryRegistry() (bool, bool) {
	k, err := registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.QUERY_VALUE)
	if err != nil { // older versions of Windows will not have this key
		return false, false
	}
	defer k.Close()

	useLight, _, err := k.GetIntegerValue(appsUseLightTheme)
	if err != nil {
		return false, false
	}
	return useLight == 0, true
}

func (s *themeService) queryCapability() (bool, bool) {
	s.capOnce.Do(func() {
		mod, err := windows.LoadLibraryEx("uxtheme.dll", 0, windows.LOAD_LIBRARY_SEARCH_SYSTEM32)
		if err != nil {
			return
		}
		addr, err := windows.GetProcAddressByOrdinal(mod, shouldSystemUseDarkModeOrdinal)
		if err != nil {
			return
		}
		s.capAddr = addr
	})

	if s.capAddr == 0 {
		return false, false
	}
	ret, _, _ := syscall.SyscallN(s.capAddr)
	return ret != 0, true
}

// Watch delivers a value whenever the Personalize key changes the theme
// preference. Cancellation takes effect on the next registry change, since
// the notification wait is blocking.
func (s *themeService) Watch(ctx context.Context) (<-chan platform.Theme, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.NOTIFY|registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}

	ch := make(chan platform.Theme, 1)
	go func() {
		defer close(ch)
		defer k.Close()

		last := s.Detect()
		for {
			err := windows.RegNotifyChangeKeyValue(windows.Handle(k), false,
				windows.REG_NOTIFY_CHANGE_NAME|windows.REG_NOTIFY_CHANGE_LAST_SET, 0, false)
			if err != nil || ctx.Err() != nil {
				return
			}

			cur := s.Detect()
			if cur == last {
				continue
			}
			last = cur

			select {
			case ch <- cur:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
