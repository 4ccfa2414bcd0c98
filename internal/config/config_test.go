// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "floatdock", cfg.Logger().ServiceName)
	assert.Equal(t, 10.0, cfg.Dock().Margin)
	assert.Equal(t, "bottom-right", cfg.Dock().Anchor)
	assert.Equal(t, 5.0, cfg.Dock().DragThreshold)
	assert.Equal(t, 0.4, cfg.Dock().MomentumFactor)
	assert.Equal(t, 16*time.Millisecond, cfg.Dock().FrameInterval)
	assert.Equal(t, 300*time.Millisecond, cfg.Dock().SettleDuration)
	assert.Equal(t, SizeConfig{Width: 60, Height: 60}, cfg.Dock().Control)
	assert.Equal(t, 60, cfg.Terminal().MaxFPS)
	assert.Equal(t, 64, cfg.Signal().BufferSize)
}

func TestSetters(t *testing.T) {
	var cfg Interface = NewDefaultConfig()

	cfg.SetDockMargin(4)
	cfg.SetDockAnchor("top-left")
	cfg.SetDockSettleDuration(time.Second)
	cfg.SetTerminalMaxFPS(30)

	assert.Equal(t, 4.0, cfg.Dock().Margin)
	assert.Equal(t, "top-left", cfg.Dock().Anchor)
	assert.Equal(t, time.Second, cfg.Dock().SettleDuration)
	assert.Equal(t, 30, cfg.Terminal().MaxFPS)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	t.Run("Core Validation", func(t *testing.T) {
		cfg := NewDefaultConfig()
		assert.NoError(t, cfg.Validate(), "A valid config should not produce a validation error")

		cfgInvalidBuffer := *cfg
		cfgInvalidBuffer.SignalCfg.BufferSize = -1
		err := cfgInvalidBuffer.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "signal.buffer_size must not be negative")
	})

	t.Run("Dock Validation", func(t *testing.T) {
		valid := NewDefaultConfig().Dock()
		assert.NoError(t, valid.Validate())

		testCases := []struct {
			name    string
			mutate  func(d *DockConfig)
			wantErr string
		}{
			{"negative margin", func(d *DockConfig) { d.Margin = -1 }, "margin must not be negative"},
			{"unknown anchor", func(d *DockConfig) { d.Anchor = "center" }, `anchor "center"`},
			{"negative threshold", func(d *DockConfig) { d.DragThreshold = -2 }, "drag_threshold must not be negative"},
			{"negative tap velocity", func(d *DockConfig) { d.TapVelocity = -0.1 }, "tap_velocity and min_velocity"},
			{"negative momentum", func(d *DockConfig) { d.MomentumFactor = -0.4 }, "momentum_factor must not be negative"},
			{"zero frame interval", func(d *DockConfig) { d.FrameInterval = 0 }, "frame_interval must be a positive duration"},
			{"zero settle duration", func(d *DockConfig) { d.SettleDuration = 0 }, "settle_duration must be a positive duration"},
			{"empty control", func(d *DockConfig) { d.Control.Width = 0 }, "control.width and control.height must be positive"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				d := valid
				tc.mutate(&d)
				err := d.Validate()
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			})
		}
	})

	t.Run("Terminal Validation", func(t *testing.T) {
		valid := NewDefaultConfig().Terminal()
		assert.NoError(t, valid.Validate())

		zeroFPS := valid
		zeroFPS.MaxFPS = 0
		err := zeroFPS.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_fps must be a positive integer")

		emptyControl := valid
		emptyControl.Control.Height = 0
		assert.Error(t, emptyControl.Validate())
	})
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
dock:
  margin: 16
  anchor: top-left
  settle_duration: 450ms
  control:
    width: 48
terminal:
  max_fps: 30
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, 16.0, cfg.Dock().Margin)
		assert.Equal(t, "top-left", cfg.Dock().Anchor)
		assert.Equal(t, 450*time.Millisecond, cfg.Dock().SettleDuration)
		assert.Equal(t, 48.0, cfg.Dock().Control.Width)
		// Unset keys keep their defaults.
		assert.Equal(t, 60.0, cfg.Dock().Control.Height)
		assert.Equal(t, 30, cfg.Terminal().MaxFPS)
		assert.Equal(t, "info", cfg.Logger().Level)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("dock.anchor", "middle")

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "dock configuration invalid")
	})

	t.Run("Log File Expansion", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		homedir.Reset()
		t.Cleanup(homedir.Reset)

		v := viper.New()
		SetDefaults(v)
		v.Set("logger.log_file", "~/floatdock.log")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, home+"/floatdock.log", cfg.Logger().LogFile)
	})
}
