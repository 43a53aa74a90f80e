package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	UI    UIConfig    `json:"ui"`
	Log   LogConfig   `json:"log"`
	Web   WebConfig   `json:"web"`
	Seed  SeedConfig  `json:"seed"`
	Trace TraceConfig `json:"trace"`
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	// Theme is one of auto|light|dark.
	Theme         string `json:"theme"`
	MarkdownStyle string `json:"markdownStyle" mapstructure:"markdown_style"`
}

type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file,omitempty"`
}

type WebConfig struct {
	Addr string `json:"addr"`
}

// SeedConfig pre-populates a fresh board so the UI has something to drag.
type SeedConfig struct {
	Containers int `json:"containers"`
	Items      int `json:"items"`
}

// TraceConfig enables gesture trace recording when Path is set.
type TraceConfig struct {
	Path string `json:"path,omitempty"`
}

func Default() Config {
	return Config{
		UI:   UIConfig{Theme: "auto", MarkdownStyle: "auto"},
		Log:  LogConfig{Level: "info"},
		Web:  WebConfig{Addr: "127.0.0.1:7420"},
		Seed: SeedConfig{Containers: 3, Items: 3},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("web.addr", d.Web.Addr)
	v.SetDefault("seed.containers", d.Seed.Containers)
	v.SetDefault("seed.items", d.Seed.Items)
	v.SetDefault("trace.path", d.Trace.Path)
}

// Path returns the config file location: $BOARD_CONFIG or ~/.config/board/config.toml.
func Path() string {
	if p := strings.TrimSpace(os.Getenv("BOARD_CONFIG")); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".config", "board", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix BOARD_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("BOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// A missing file is the normal case; a present but broken one is not.
		if _, statErr := os.Stat(Path()); statErr == nil {
			return Config{}, fmt.Errorf("read config %s: %w", Path(), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.UI.Theme)) {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("invalid ui.theme %q (want auto|light|dark)", c.UI.Theme)
	}
	if c.Seed.Containers < 0 || c.Seed.Containers > 26 {
		return fmt.Errorf("invalid seed.containers %d (want 0-26)", c.Seed.Containers)
	}
	if c.Seed.Items < 0 {
		return fmt.Errorf("invalid seed.items %d", c.Seed.Items)
	}
	return nil
}

// Save writes cfg to Path(), creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.markdown_style", cfg.UI.MarkdownStyle)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("web.addr", cfg.Web.Addr)
	v.Set("seed.containers", cfg.Seed.Containers)
	v.Set("seed.items", cfg.Seed.Items)
	v.Set("trace.path", cfg.Trace.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
