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
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`

	// Keymap maps an action id to hotkey overrides, replacing the action's
	// built-in hotkeys entirely. An empty list unbinds the action.
	Keymap map[string][]string `mapstructure:"keymap"`
}

// LoggingConfig holds operator-channel log settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DoubleClickMs int    `mapstructure:"double_click_ms"`
	SortByName    bool   `mapstructure:"sort_by_name"`
	RootLabel     string `mapstructure:"root_label"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// VDIR_. An explicit path wins over the search path; a missing config file
// is not an error, the defaults stand.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
	v.SetDefault("ui.double_click_ms", 300)
	v.SetDefault("ui.sort_by_name", false)
	v.SetDefault("ui.root_label", "Home")

	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "vdir"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("VDIR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && path != "" {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if c.UI.DoubleClickMs <= 0 {
		c.UI.DoubleClickMs = 300
	}
	return c, nil
}
