// Package main is the entry point for the darkframe CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/darkframe/darkframe/internal/config"
	"github.com/darkframe/darkframe/internal/core"
	_ "github.com/darkframe/darkframe/internal/platform/stub"
	"github.com/darkframe/darkframe/internal/ui"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	modeFlag string
	dryRun   bool
	verbose  bool
	quiet    bool

	// Global output
	out *ui.Output
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "darkframe",
		Short: "Titlebar theme agent for Windows",
		Long: `Darkframe keeps the titlebars of a process's top-level windows in sync
with the system light/dark theme. New windows are themed before their
first paint, and theme-change broadcasts re-theme every managed window.`,
	}

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/darkframe/config.toml)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "theme mode (auto|light|dark)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "show what would be done without doing it")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add commands
	rootCmd.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newApplyCmd(),
		newResetCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// initOutput initializes the output.
func initOutput() {
	out = ui.DefaultOutput()
	out.SetVerbose(verbose)
	out.SetQuiet(quiet)
}

// newAgent creates a new agent with current flags.
func newAgent() (*core.Agent, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var opts []core.Option
	if modeFlag != "" {
		mode := config.Mode(modeFlag)
		switch mode {
		case config.ModeAuto, config.ModeLight, config.ModeDark:
		default:
			return nil, fmt.Errorf("invalid mode: %s (must be auto, light, or dark)", modeFlag)
		}
		opts = append(opts, core.WithModeOverride(mode))
	}
	if dryRun {
		opts = append(opts, core.WithDryRun(true))
	}
	opts = append(opts, core.WithLogf(out.Debug))

	return core.New(cfg, opts...), nil
}

// newRunCmd creates the run command.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the agent in the foreground",
		Long: `Installs the interceptions, themes every existing eligible window, and
follows system theme changes until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			agent, err := newAgent()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'darkframe init' to create a default configuration")
				return err
			}

			if agent.Excluded() {
				out.Warning("Process is excluded, nothing to do")
				return nil
			}

			out.Info("Agent running, press Ctrl+C to stop")
			if err := agent.Run(cmd.Context()); err != nil && err != context.Canceled {
				out.Error("Agent stopped: %v", err)
				return err
			}

			out.Success("Agent stopped")
			return nil
		},
	}
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show agent and window status",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			agent, err := newAgent()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'darkframe init' to create a default configuration")
				return err
			}

			st := agent.Status()

			out.Print("")
			out.Field("Platform", st.Platform)
			out.FieldColored("Supported", boolLabel(st.Supported), boolColor(st.Supported))
			out.Field("Mode", st.Mode)
			out.Field("Theme", themeLabel(st.Dark))
			out.Field("PID", fmt.Sprintf("%d", st.PID))
			out.Field("Executable", shortenPath(st.Executable))
			if st.Excluded {
				out.FieldColored("Excluded", "yes", ui.Yellow)
			}
			out.Field("Windows", fmt.Sprintf("%d (%d eligible)", st.ProcessWindows, st.EligibleWindows))
			out.Print("")

			if !st.Supported {
				out.Warning("Titlebar theming is not supported on this platform")
			}

			return nil
		},
	}
}

// newApplyCmd creates the apply command.
func newApplyCmd() *cobra.Command {
	var dark, light bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the titlebar appearance once",
		Long: `Themes every eligible top-level window owned by this process once,
without installing interceptions. By default the appearance follows the
effective theme mode; --dark and --light force it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			if dark && light {
				out.Error("--dark and --light are mutually exclusive")
				return fmt.Errorf("conflicting flags")
			}

			agent, err := newAgent()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'darkframe init' to create a default configuration")
				return err
			}

			if agent.Excluded() {
				out.Warning("Process is excluded, nothing to do")
				return nil
			}

			enable := agent.Dark()
			switch {
			case dark:
				enable = true
			case light:
				enable = false
			default:
				agent.SyncTheme()
				enable = agent.Dark()
			}

			applied := agent.ApplyAll(enable)

			if dryRun {
				out.Info("Would set %d window(s) to %s", applied, themeLabel(enable))
				return nil
			}

			out.Success("Set %d window(s) to %s", applied, themeLabel(enable))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dark, "dark", false, "force dark titlebars")
	cmd.Flags().BoolVar(&light, "light", false, "force light titlebars")

	return cmd
}

// newResetCmd creates the reset command.
func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default titlebars",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			agent, err := newAgent()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'darkframe init' to create a default configuration")
				return err
			}

			if agent.Excluded() {
				out.Warning("Process is excluded, nothing to do")
				return nil
			}

			applied := agent.ApplyAll(false)

			if dryRun {
				out.Info("Would reset %d window(s)", applied)
				return nil
			}

			out.Success("Reset %d window(s)", applied)
			return nil
		},
	}
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize darkframe configuration",
		Long:  "Creates the default configuration file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			configDir := config.DefaultConfigDir()
			configPath := filepath.Join(configDir, "config.toml")

			// Check if already exists
			if _, err := os.Stat(configPath); err == nil && !force {
				out.Warning("Configuration already exists at %s", configPath)
				out.Info("Use --force to overwrite")
				return nil
			}

			cfg := config.DefaultConfig()
			if err := cfg.Save(configPath); err != nil {
				out.Error("Failed to write config: %v", err)
				return err
			}

			out.Success("Darkframe initialized")
			out.Field("Config", shortenPath(configPath))
			out.Print("")
			out.Info("Edit %s to configure mode and exclusions", shortenPath(configPath))

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration")

	return cmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			initOutput()
			out.Print("darkframe version 0.1.0")
		},
	}
}

// shortenPath shortens a path for display.
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) > len(home) && path[:len(home)] == home {
		return "~" + path[len(home):]
	}
	return path
}

// themeLabel returns the display name of a titlebar appearance.
func themeLabel(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func boolLabel(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func boolColor(b bool) string {
	if b {
		return ui.Green
	}
	return ui.Red
}
