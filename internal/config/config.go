package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

type WatchConfig struct {
	Enabled     bool `toml:"enabled"`
	PollSeconds int  `toml:"poll-seconds"`
}

type Config struct {
	Mode          Mode        `toml:"mode"`
	Exclude       []string    `toml:"exclude"`
	RestoreOnExit bool        `toml:"restore-on-exit"`
	Watch         WatchConfig `toml:"watch"`

	configPath string
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "darkframe")
}

func DefaultConfig() *Config {
	return &Config{
		Mode:          ModeAuto,
		RestoreOnExit: true,
		Watch: WatchConfig{
			Enabled:     true,
			PollSeconds: 30,
		},
	}
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.toml")
	}

	path = expandPath(path)

	cfg := DefaultConfig()
	cfg.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.postProcess()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadString parses a settings blob handed over by a hosting process that
// manages configuration itself instead of reading a file.
func LoadString(data string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.postProcess()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) postProcess() {
	cleaned := c.Exclude[:0]
	for _, name := range c.Exclude {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		cleaned = append(cleaned, name)
	}
	c.Exclude = cleaned
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeAuto, ModeLight, ModeDark:
	default:
		return fmt.Errorf("invalid mode: %s (must be auto, light, or dark)", c.Mode)
	}

	if c.Watch.PollSeconds < 0 {
		return fmt.Errorf("invalid poll-seconds: %d (must be >= 0)", c.Watch.PollSeconds)
	}

	return nil
}

func (c *Config) ConfigPath() string {
	return c.configPath
}

func (c *Config) Save(path string) error {
	if path == "" {
		path = c.configPath
	}
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.toml")
	}

	path = expandPath(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
