// Package config holds viewer configuration: a YAML file overlaid with
// CHMVIEW_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Theme is an explicit variant passed to the front-ends; there is no
// ambient theme state.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Config is the top-level viewer configuration.
type Config struct {
	Theme        Theme  `yaml:"theme" koanf:"theme"`
	SidebarWidth int    `yaml:"sidebar_width" koanf:"sidebar_width"`
	WrapWidth    int    `yaml:"wrap_width" koanf:"wrap_width"`
	Extractor    string `yaml:"extractor" koanf:"extractor"`
	RememberPage bool   `yaml:"remember_page" koanf:"remember_page"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Theme:        ThemeDark,
		SidebarWidth: 38,
		WrapWidth:    100,
		RememberPage: true,
	}
}

// DefaultPath returns the conventional config file location,
// XDG_CONFIG_HOME/chmview/config.yml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "chmview", "config.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chmview", "config.yml")
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CHMVIEW_*). A missing file is fine;
// defaults apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// CHMVIEW_SIDEBAR_WIDTH -> sidebar_width, etc.
	if err := k.Load(env.Provider("CHMVIEW_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CHMVIEW_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path, creating
// parent directories as needed.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validThemes is the set of recognized theme values.
var validThemes = map[Theme]bool{
	ThemeLight: true,
	ThemeDark:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if !validThemes[c.Theme] {
		return fmt.Errorf("invalid theme %q: must be light or dark", c.Theme)
	}
	if c.SidebarWidth < 20 {
		return fmt.Errorf("sidebar_width must be at least 20")
	}
	if c.WrapWidth < 40 {
		return fmt.Errorf("wrap_width must be at least 40")
	}
	return nil
}
