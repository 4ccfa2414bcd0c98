// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Dock() DockConfig
	Terminal() TerminalConfig
	Signal() SignalConfig

	// Dock Setters
	SetDockMargin(float64)
	SetDockAnchor(string)
	SetDockSettleDuration(time.Duration)

	// Terminal Setters
	SetTerminalMaxFPS(int)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	DockCfg     DockConfig     `mapstructure:"dock" yaml:"dock"`
	TerminalCfg TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
	SignalCfg   SignalConfig   `mapstructure:"signal" yaml:"signal"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Dock() DockConfig         { return c.DockCfg }
func (c *Config) Terminal() TerminalConfig { return c.TerminalCfg }
func (c *Config) Signal() SignalConfig     { return c.SignalCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetDockMargin(m float64)                { c.DockCfg.Margin = m }
func (c *Config) SetDockAnchor(a string)                 { c.DockCfg.Anchor = a }
func (c *Config) SetDockSettleDuration(d time.Duration) { c.DockCfg.SettleDuration = d }
func (c *Config) SetTerminalMaxFPS(fps int)             { c.TerminalCfg.MaxFPS = fps }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DockConfig holds the tunables of the floating control's interaction engine.
type DockConfig struct {
	Margin         float64       `mapstructure:"margin" yaml:"margin"`
	Anchor         string        `mapstructure:"anchor" yaml:"anchor"`
	DragThreshold  float64       `mapstructure:"drag_threshold" yaml:"drag_threshold"`
	TapVelocity    float64       `mapstructure:"tap_velocity" yaml:"tap_velocity"`
	MomentumFactor float64       `mapstructure:"momentum_factor" yaml:"momentum_factor"`
	MinVelocity    float64       `mapstructure:"min_velocity" yaml:"min_velocity"`
	FrameInterval  time.Duration `mapstructure:"frame_interval" yaml:"frame_interval"`
	SettleDuration time.Duration `mapstructure:"settle_duration" yaml:"settle_duration"`
	Control        SizeConfig    `mapstructure:"control" yaml:"control"`
}

// SizeConfig is a width/height pair in surface units.
type SizeConfig struct {
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
}

// TerminalConfig holds settings for the terminal host. Terminal surfaces are
// measured in cells, so the control footprint and margin are overridden here.
type TerminalConfig struct {
	Control       SizeConfig    `mapstructure:"control" yaml:"control"`
	Margin        float64       `mapstructure:"margin" yaml:"margin"`
	DragThreshold float64       `mapstructure:"drag_threshold" yaml:"drag_threshold"`
	MaxFPS        int           `mapstructure:"max_fps" yaml:"max_fps"`
	FrameInterval time.Duration `mapstructure:"frame_interval" yaml:"frame_interval"`
	Label         string        `mapstructure:"label" yaml:"label"`
}

// SignalConfig configures the signal bus.
type SignalConfig struct {
	BufferSize int `mapstructure:"buffer_size" yaml:"buffer_size"`
}

// NewDefaultConfig creates a configuration populated with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// Defaults must always be valid.
		panic(fmt.Sprintf("invalid default configuration: %v", err))
	}
	return cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "floatdock")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Dock --
	v.SetDefault("dock.margin", 10.0)
	v.SetDefault("dock.anchor", "bottom-right")
	v.SetDefault("dock.drag_threshold", 5.0)
	v.SetDefault("dock.tap_velocity", 0.5)
	v.SetDefault("dock.momentum_factor", 0.4)
	v.SetDefault("dock.min_velocity", 0.5)
	v.SetDefault("dock.frame_interval", "16ms")
	v.SetDefault("dock.settle_duration", "300ms")
	v.SetDefault("dock.control.width", 60.0)
	v.SetDefault("dock.control.height", 60.0)

	// -- Terminal --
	v.SetDefault("terminal.control.width", 8.0)
	v.SetDefault("terminal.control.height", 3.0)
	v.SetDefault("terminal.margin", 1.0)
	v.SetDefault("terminal.drag_threshold", 1.0)
	v.SetDefault("terminal.max_fps", 60)
	v.SetDefault("terminal.frame_interval", "16ms")
	v.SetDefault("terminal.label", " chat ")

	// -- Signal --
	v.SetDefault("signal.buffer_size", 64)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.LoggerCfg.LogFile != "" {
		expanded, err := homedir.Expand(cfg.LoggerCfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("error expanding logger.log_file: %w", err)
		}
		cfg.LoggerCfg.LogFile = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.DockCfg.Validate(); err != nil {
		return fmt.Errorf("dock configuration invalid: %w", err)
	}
	if err := c.TerminalCfg.Validate(); err != nil {
		return fmt.Errorf("terminal configuration invalid: %w", err)
	}
	if c.SignalCfg.BufferSize < 0 {
		return fmt.Errorf("signal.buffer_size must not be negative")
	}
	return nil
}

var validAnchors = map[string]struct{}{
	"top-left":     {},
	"top-right":    {},
	"bottom-left":  {},
	"bottom-right": {},
}

// Validate checks the dock tunables.
func (d *DockConfig) Validate() error {
	if d.Margin < 0 {
		return fmt.Errorf("margin must not be negative")
	}
	if _, ok := validAnchors[d.Anchor]; !ok {
		return fmt.Errorf("anchor %q is not one of top-left, top-right, bottom-left, bottom-right", d.Anchor)
	}
	if d.DragThreshold < 0 {
		return fmt.Errorf("drag_threshold must not be negative")
	}
	if d.TapVelocity < 0 || d.MinVelocity < 0 {
		return fmt.Errorf("tap_velocity and min_velocity must not be negative")
	}
	if d.MomentumFactor < 0 {
		return fmt.Errorf("momentum_factor must not be negative")
	}
	if d.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be a positive duration")
	}
	if d.SettleDuration <= 0 {
		return fmt.Errorf("settle_duration must be a positive duration")
	}
	if d.Control.Width <= 0 || d.Control.Height <= 0 {
		return fmt.Errorf("control.width and control.height must be positive")
	}
	return nil
}

// Validate checks the terminal host settings.
func (t *TerminalConfig) Validate() error {
	if t.Control.Width <= 0 || t.Control.Height <= 0 {
		return fmt.Errorf("control.width and control.height must be positive")
	}
	if t.Margin < 0 {
		return fmt.Errorf("margin must not be negative")
	}
	if t.MaxFPS <= 0 {
		return fmt.Errorf("max_fps must be a positive integer")
	}
	if t.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be a positive duration")
	}
	return nil
}
