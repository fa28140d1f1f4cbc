package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds mdview configuration.
type Config struct {
	Render RenderConfig `mapstructure:"render"`
	Bridge BridgeConfig `mapstructure:"bridge"`
	Trace  TraceConfig  `mapstructure:"trace"`
}

// RenderConfig holds output settings.
type RenderConfig struct {
	Theme  string `mapstructure:"theme"`
	Width  int    `mapstructure:"width"`
	OSC8   string `mapstructure:"osc8"`
	Boring bool   `mapstructure:"boring"`
}

// BridgeConfig selects the host transport of the sidebar: "stdout", "none"
// or an http(s) URL.
type BridgeConfig struct {
	Target string `mapstructure:"target"`
}

// TraceConfig holds the schuko trace level (Debug, Info or Error).
type TraceConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// MDVIEW_, so render.theme is MDVIEW_RENDER_THEME. MDVIEW_CONFIG names an
// explicit config file; otherwise ~/.config/mdview/config.toml is read if
// present.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("render.theme", "default")
	v.SetDefault("render.width", 0)
	v.SetDefault("render.osc8", "auto")
	v.SetDefault("render.boring", false)
	v.SetDefault("bridge.target", "stdout")
	v.SetDefault("trace.level", "Error")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("MDVIEW_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "mdview"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MDVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// an explicitly named file has to exist and parse
	if err := v.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing || cfgPath != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
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

// Validate checks value ranges that viper cannot.
func (c Config) Validate() error {
	switch strings.ToLower(c.Render.OSC8) {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("config: render.osc8 must be auto, on or off, got %q", c.Render.OSC8)
	}
	if c.Render.Width < 0 {
		return fmt.Errorf("config: render.width must not be negative, got %d", c.Render.Width)
	}
	switch strings.ToLower(c.Trace.Level) {
	case "debug", "info", "error":
	default:
		return fmt.Errorf("config: trace.level must be Debug, Info or Error, got %q", c.Trace.Level)
	}
	return nil
}
