package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkframe/darkframe/internal/config"
	"github.com/darkframe/darkframe/internal/platform"
	"github.com/darkframe/darkframe/internal/platform/fake"
)

var captioned = platform.StyleFlags{Caption: true}

func newTestAgent(t *testing.T, cfg *config.Config, opts ...Option) (*fake.Platform, *Agent) {
	t.Helper()

	fp := fake.New()
	platform.SetPlatform(fp)
	t.Cleanup(platform.ResetPlatform)

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return fp, New(cfg, opts...)
}

func ownWindow(fp *fake.Platform, styles platform.StyleFlags) fake.Window {
	return fake.Window{Styles: styles, PID: fp.PID(), TopLevel: true}
}

func TestAgent_Init_SeedsTheme(t *testing.T) {
	tests := []struct {
		name     string
		theme    platform.Theme
		wantDark bool
	}{
		{"light system", platform.ThemeLight, false},
		{"dark system", platform.ThemeDark, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, a := newTestAgent(t, nil)
			fp.SetTheme(tt.theme)

			require.True(t, a.Init())
			assert.Equal(t, tt.wantDark, a.Dark())

			create, message := fp.HooksInstalled()
			assert.True(t, create)
			assert.True(t, message)
		})
	}
}

func TestAgent_Init_SurvivesHookFailure(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	fp.FailCreateHook(errors.New("no hook for you"))
	fp.FailMessageHook(errors.New("no hook for you"))

	assert.True(t, a.Init())

	st := a.Status()
	assert.False(t, st.CreateHook)
	assert.False(t, st.MessageHook)
}

func TestAgent_CreateWindow_DarkTheme(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	fp.SetTheme(platform.ThemeDark)
	require.True(t, a.Init())

	got := fp.CreateWindow(1, ownWindow(fp, captioned))

	assert.Equal(t, platform.Handle(1), got)
	assert.True(t, fp.DarkOf(1))
	assert.Equal(t, 1, fp.AttrWrites())
}

func TestAgent_CreateWindow_LightThemeWritesFalse(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	fp.SetTheme(platform.ThemeLight)
	require.True(t, a.Init())

	got := fp.CreateWindow(1, ownWindow(fp, captioned))

	// The attribute is written explicitly even in light mode, clearing any
	// dark appearance the window might inherit.
	assert.Equal(t, platform.Handle(1), got)
	assert.False(t, fp.DarkOf(1))
	assert.Equal(t, 1, fp.AttrWrites())
}

func TestAgent_CreateWindow_IneligibleSkipped(t *testing.T) {
	tests := []struct {
		name   string
		styles platform.StyleFlags
	}{
		{"no caption", platform.StyleFlags{}},
		{"child window", platform.StyleFlags{Caption: true, Child: true}},
		{"tool window", platform.StyleFlags{Caption: true, ToolWindow: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, a := newTestAgent(t, nil)
			fp.SetTheme(platform.ThemeDark)
			require.True(t, a.Init())

			got := fp.CreateWindow(1, ownWindow(fp, tt.styles))

			// Creation is always forwarded even when theming is skipped.
			assert.Equal(t, platform.Handle(1), got)
			assert.False(t, fp.DarkOf(1))
			assert.Zero(t, fp.AttrWrites())
		})
	}
}

func TestAgent_CreateHandler_ReturnsForwarderResult(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	fp.SetTheme(platform.ThemeDark)
	require.True(t, a.Init())

	// The handler must call the forwarder exactly once and hand back its
	// result untouched, whatever value the chain produced.
	const sentinel = platform.Handle(0xBEEF)
	calls := 0
	got := a.onWindowCreated(func() platform.Handle {
		calls++
		return sentinel
	})

	assert.Equal(t, sentinel, got)
	assert.Equal(t, 1, calls)
}

func TestAgent_ThemeChange_Propagates(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	fp.SetTheme(platform.ThemeLight)
	require.True(t, a.Init())

	fp.AddWindow(1, ownWindow(fp, captioned))
	fp.AddWindow(2, ownWindow(fp, captioned))
	fp.AddWindow(3, fake.Window{Styles: captioned, PID: 9999, TopLevel: true})

	fp.SetTheme(platform.ThemeDark)
	ret := fp.SendMessage(platform.Message{Window: 1, ID: platform.MsgSettingChange})

	assert.Equal(t, fake.MessageResult, ret)
	assert.True(t, a.Dark())
	assert.True(t, fp.DarkOf(1))
	assert.True(t, fp.DarkOf(2))
	assert.False(t, fp.DarkOf(3), "foreign process window must stay untouched")
}

func TestAgent_ThemeChange_ColorizationMessage(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	require.True(t, a.Init())
	fp.AddWindow(1, ownWindow(fp, captioned))

	fp.SetTheme(platform.ThemeDark)
	fp.SendMessage(platform.Message{Window: 1, ID: platform.MsgColorizationChanged})

	assert.True(t, a.Dark())
	assert.True(t, fp.DarkOf(1))
}

func TestAgent_ThemeChange_RedundantBroadcastSuppressed(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	fp.SetTheme(platform.ThemeDark)
	require.True(t, a.Init())
	fp.AddWindow(1, ownWindow(fp, captioned))

	// The theme is already dark; the broadcast must not re-apply anything.
	fp.SendMessage(platform.Message{Window: 1, ID: platform.MsgSettingChange})
	assert.Zero(t, fp.AttrWrites())

	fp.SendMessage(platform.Message{Window: 1, ID: platform.MsgSettingChange})
	assert.Zero(t, fp.AttrWrites())
}

func TestAgent_ThemeChange_UnrelatedMessageIgnored(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	require.True(t, a.Init())
	fp.AddWindow(1, ownWindow(fp, captioned))

	fp.SetTheme(platform.ThemeDark)
	ret := fp.SendMessage(platform.Message{Window: 1, ID: 0x0005})

	assert.Equal(t, fake.MessageResult, ret)
	assert.False(t, a.Dark())
	assert.Zero(t, fp.AttrWrites())
}

func TestAgent_AfterInit_ThemesExistingWindows(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	fp.SetTheme(platform.ThemeDark)

	fp.AddWindow(1, ownWindow(fp, captioned))
	fp.AddWindow(2, ownWindow(fp, platform.StyleFlags{Caption: true, ToolWindow: true}))

	require.True(t, a.Init())
	a.AfterInit()

	assert.True(t, fp.DarkOf(1))
	assert.False(t, fp.DarkOf(2))
	assert.Equal(t, 1, fp.AttrWrites())
}

func TestAgent_Uninit_RestoresAndUnhooks(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	fp.SetTheme(platform.ThemeDark)
	require.True(t, a.Init())
	fp.AddWindow(1, ownWindow(fp, captioned))
	a.AfterInit()
	require.True(t, fp.DarkOf(1))

	a.Uninit()

	assert.False(t, fp.DarkOf(1))
	create, message := fp.HooksInstalled()
	assert.False(t, create)
	assert.False(t, message)

	st := a.Status()
	assert.False(t, st.CreateHook)
	assert.False(t, st.MessageHook)
}

func TestAgent_Exclusion(t *testing.T) {
	tests := []struct {
		name string
		exe  string
	}{
		{"settings host", `C:\Windows\ImmersiveControlPanel\SystemSettings.exe`},
		{"uwp frame host", `C:\Windows\System32\ApplicationFrameHost.exe`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, a := newTestAgent(t, nil)
			fp.SetProcess(4242, tt.exe)
			fp.SetTheme(platform.ThemeDark)

			require.True(t, a.Init())
			assert.True(t, a.Excluded())

			// No interception is installed for an excluded process.
			create, message := fp.HooksInstalled()
			assert.False(t, create)
			assert.False(t, message)

			fp.AddWindow(1, ownWindow(fp, captioned))
			a.AfterInit()
			assert.Zero(t, fp.AttrWrites())
			assert.False(t, a.SyncTheme())
			assert.Zero(t, a.ApplyAll(true))
		})
	}
}

func TestAgent_Exclusion_ConfiguredExtra(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Exclude = []string{"viewer.exe"}

	fp, a := newTestAgent(t, cfg)
	fp.SetProcess(4242, `D:\tools\Viewer.exe`)

	assert.True(t, a.Excluded())
}

func TestAgent_ApplyAll_CountsOnlyUpdated(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	require.True(t, a.Init())

	fp.AddWindow(1, ownWindow(fp, captioned))
	fp.AddWindow(2, ownWindow(fp, captioned))
	fp.AddWindow(3, fake.Window{Styles: captioned, PID: 9999, TopLevel: true})
	fp.AddWindow(4, fake.Window{Styles: captioned, PID: fp.PID(), TopLevel: false})
	fp.AddWindow(5, ownWindow(fp, platform.StyleFlags{Caption: true, Child: true}))

	applied := a.ApplyAll(true)

	assert.Equal(t, 2, applied)
	assert.True(t, fp.DarkOf(1))
	assert.True(t, fp.DarkOf(2))
	assert.False(t, fp.DarkOf(3))
	assert.False(t, fp.DarkOf(4))
	assert.False(t, fp.DarkOf(5))
}

func TestAgent_ApplyAll_Idempotent(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	require.True(t, a.Init())
	fp.AddWindow(1, ownWindow(fp, captioned))

	assert.Equal(t, 1, a.ApplyAll(true))
	assert.Equal(t, 1, a.ApplyAll(true))
	assert.True(t, fp.DarkOf(1))
}

func TestAgent_ApplyAll_SkipsDestroyedWindow(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	require.True(t, a.Init())

	fp.AddWindow(1, ownWindow(fp, captioned))
	fp.AddWindow(2, ownWindow(fp, captioned))
	fp.DestroyWindow(1)

	applied := a.ApplyAll(true)

	assert.Equal(t, 1, applied)
	assert.True(t, fp.DarkOf(2))
}

func TestAgent_ApplyAll_ComposerFailure(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	require.True(t, a.Init())

	fp.AddWindow(1, ownWindow(fp, captioned))
	fp.FailComposer(errors.New("composition refused"))

	applied := a.ApplyAll(true)

	assert.Zero(t, applied)
	assert.False(t, fp.DarkOf(1))
}

func TestAgent_Eligible(t *testing.T) {
	fp, a := newTestAgent(t, nil)

	fp.AddWindow(1, ownWindow(fp, captioned))
	fp.AddWindow(2, ownWindow(fp, platform.StyleFlags{}))
	fp.AddWindow(3, ownWindow(fp, platform.StyleFlags{Caption: true, Child: true}))
	fp.AddWindow(4, ownWindow(fp, platform.StyleFlags{Caption: true, ToolWindow: true}))
	fp.AddWindow(5, ownWindow(fp, captioned))
	fp.DestroyWindow(5)

	tests := []struct {
		name string
		h    platform.Handle
		want bool
	}{
		{"captioned top-level", 1, true},
		{"no caption", 2, false},
		{"child", 3, false},
		{"tool window", 4, false},
		{"destroyed", 5, false},
		{"zero handle", 0, false},
		{"unknown handle", 77, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Eligible(tt.h))
		})
	}
}

func TestAgent_ModeOverride(t *testing.T) {
	tests := []struct {
		name     string
		override config.Mode
		theme    platform.Theme
		wantDark bool
	}{
		{"forced dark on light system", config.ModeDark, platform.ThemeLight, true},
		{"forced light on dark system", config.ModeLight, platform.ThemeDark, false},
		{"auto follows system", config.ModeAuto, platform.ThemeDark, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, a := newTestAgent(t, nil, WithModeOverride(tt.override))
			fp.SetTheme(tt.theme)

			require.True(t, a.Init())
			assert.Equal(t, tt.wantDark, a.Dark())
		})
	}
}

func TestAgent_ConfiguredMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeDark

	fp, a := newTestAgent(t, cfg)
	fp.SetTheme(platform.ThemeLight)

	require.True(t, a.Init())
	assert.True(t, a.Dark())
}

func TestAgent_DryRun(t *testing.T) {
	fp, a := newTestAgent(t, nil, WithDryRun(true))
	fp.SetTheme(platform.ThemeDark)
	require.True(t, a.Init())

	fp.AddWindow(1, ownWindow(fp, captioned))
	applied := a.ApplyAll(true)

	assert.Equal(t, 1, applied)
	assert.Zero(t, fp.AttrWrites())
	assert.False(t, fp.DarkOf(1))
}

func TestAgent_Status(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	fp.SetTheme(platform.ThemeDark)
	require.True(t, a.Init())

	fp.AddWindow(1, ownWindow(fp, captioned))
	fp.AddWindow(2, ownWindow(fp, platform.StyleFlags{Caption: true, ToolWindow: true}))
	fp.AddWindow(3, fake.Window{Styles: captioned, PID: 9999, TopLevel: true})

	st := a.Status()

	assert.Equal(t, "fake", st.Platform)
	assert.True(t, st.Supported)
	assert.Equal(t, "auto", st.Mode)
	assert.True(t, st.Dark)
	assert.False(t, st.Excluded)
	assert.True(t, st.CreateHook)
	assert.True(t, st.MessageHook)
	assert.Equal(t, uint32(4242), st.PID)
	assert.Equal(t, `C:\Program Files\App\app.exe`, st.Executable)
	assert.Equal(t, 2, st.ProcessWindows)
	assert.Equal(t, 1, st.EligibleWindows)
}

func TestAgent_Run_FollowsThemeChanges(t *testing.T) {
	fp, a := newTestAgent(t, nil)
	fp.SetTheme(platform.ThemeLight)
	fp.AddWindow(1, ownWindow(fp, captioned))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	assert.Eventually(t, func() bool {
		create, message := fp.HooksInstalled()
		return create && message
	}, time.Second, 5*time.Millisecond)

	fp.PushTheme(platform.ThemeDark)

	assert.Eventually(t, func() bool {
		return fp.DarkOf(1)
	}, time.Second, 5*time.Millisecond)

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)

	// RestoreOnExit is on by default.
	assert.False(t, fp.DarkOf(1))
	create, message := fp.HooksInstalled()
	assert.False(t, create)
	assert.False(t, message)
}

func TestAgent_Run_NoRestoreOnExit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RestoreOnExit = false

	fp, a := newTestAgent(t, cfg)
	fp.SetTheme(platform.ThemeDark)
	fp.AddWindow(1, ownWindow(fp, captioned))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return fp.DarkOf(1)
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	// The titlebar keeps its dark appearance, only the hooks are removed.
	assert.True(t, fp.DarkOf(1))
	create, message := fp.HooksInstalled()
	assert.False(t, create)
	assert.False(t, message)
}

func TestThemeName(t *testing.T) {
	assert.Equal(t, "dark", themeName(true))
	assert.Equal(t, "light", themeName(false))
}
