// Package config loads figscript settings from a YAML file and FIGSCRIPT_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/figscript/figscript/internal/script"
	"github.com/figscript/figscript/internal/templates"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "FIGSCRIPT"

// Themes lists the TUI theme names accepted in tui.theme.
var Themes = []string{"default", "high-contrast"}

// Config is the full figscript configuration.
type Config struct {
	Render  RenderConfig  `mapstructure:"render"`
	Script  ScriptConfig  `mapstructure:"script"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`

	// File is the config file that was read, empty when only defaults and
	// environment were used.
	File string `mapstructure:"-"`
}

// RenderConfig configures the template renderer.
type RenderConfig struct {
	Unresolved string `mapstructure:"unresolved"`
	BlankLines string `mapstructure:"blank_lines"`
}

// ScriptConfig configures script assembly.
type ScriptConfig struct {
	Wrap     bool   `mapstructure:"wrap"`
	Comments bool   `mapstructure:"comments"`
	Indent   string `mapstructure:"indent"`
	Check    bool   `mapstructure:"check"`
	Minify   bool   `mapstructure:"minify"`
}

// CatalogConfig lists extra catalog directories, searched before the
// standard locations.
type CatalogConfig struct {
	Dirs []string `mapstructure:"dirs"`
}

// TUIConfig configures the interactive UI.
type TUIConfig struct {
	Theme          string        `mapstructure:"theme"`
	NoticeDuration time.Duration `mapstructure:"notice_duration"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Unresolved: "keep",
			BlankLines: "collapse",
		},
		Script: ScriptConfig{
			Wrap:     true,
			Comments: true,
			Indent:   "  ",
		},
		Catalog: CatalogConfig{Dirs: []string{}},
		TUI: TUIConfig{
			Theme:          "default",
			NoticeDuration: 3 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/figscript, or ~/.config/figscript.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "figscript")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "figscript")
	}
	return filepath.Join(home, ".config", "figscript")
}

// Load reads configuration from path, or from the default config directory
// when path is empty. A missing default file is not an error; a missing
// explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("render.unresolved", d.Render.Unresolved)
	v.SetDefault("render.blank_lines", d.Render.BlankLines)
	v.SetDefault("script.wrap", d.Script.Wrap)
	v.SetDefault("script.comments", d.Script.Comments)
	v.SetDefault("script.indent", d.Script.Indent)
	v.SetDefault("script.check", d.Script.Check)
	v.SetDefault("script.minify", d.Script.Minify)
	v.SetDefault("catalog.dirs", d.Catalog.Dirs)
	v.SetDefault("tui.theme", d.TUI.Theme)
	v.SetDefault("tui.notice_duration", d.TUI.NoticeDuration)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Validate checks option values that the decoder cannot.
func (c *Config) Validate() error {
	if _, err := c.RenderOptions(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !slices.Contains(Themes, c.TUI.Theme) {
		return fmt.Errorf("invalid config: tui.theme %q (want one of %s)", c.TUI.Theme, strings.Join(Themes, ", "))
	}
	if c.TUI.NoticeDuration <= 0 {
		return fmt.Errorf("invalid config: tui.notice_duration must be positive, got %s", c.TUI.NoticeDuration)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "console", "json":
	default:
		return fmt.Errorf("invalid config: logging.format %q (want text or json)", c.Logging.Format)
	}
	if strings.Trim(c.Script.Indent, " \t") != "" {
		return fmt.Errorf("invalid config: script.indent must be whitespace, got %q", c.Script.Indent)
	}
	return nil
}

// RenderOptions converts the render section into renderer options.
func (c *Config) RenderOptions() (templates.Options, error) {
	return templates.ParseOptions(c.Render.Unresolved, c.Render.BlankLines)
}

// ScriptOptions converts the script section into assembly options.
func (c *Config) ScriptOptions() script.Options {
	return script.Options{
		Wrap:     c.Script.Wrap,
		Comments: c.Script.Comments,
		Indent:   c.Script.Indent,
	}
}
