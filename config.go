package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OutputConfig describes the single logical output.
type OutputConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the compositor configuration. Zero values are replaced by
// defaults when loading.
type Config struct {
	// Listen is the address of the HTTP API; empty disables it.
	Listen string `yaml:"listen"`
	// Display is the X11 display hosting the preview window; empty
	// runs without one.
	Display string       `yaml:"display"`
	Output  OutputConfig `yaml:"output"`

	FrameInterval time.Duration `yaml:"frame_interval"`
	FadeDuration  time.Duration `yaml:"fade_duration"`
	// ResizeAckTimeout bounds how long a surface may wait on its client
	// after a resize. Zero waits forever.
	ResizeAckTimeout time.Duration `yaml:"resize_ack_timeout"`

	NewWindowPosition Pos `yaml:"new_window_position"`
	// Placement is fixed (every window at NewWindowPosition) or cascade.
	Placement string `yaml:"placement"`
	// NudgeStep is how far the nudge bindings move a window.
	NudgeStep int `yaml:"nudge_step"`
	// Modifier is the key held for compositor bindings: alt, super or
	// ctrl.
	Modifier string `yaml:"modifier"`

	LogLevel string `yaml:"log_level"`
	// SimulatedLatency delays the replies of simulated clients.
	SimulatedLatency time.Duration `yaml:"simulated_latency"`
}

const (
	defaultListen           = "127.0.0.1:8080"
	defaultFrameInterval    = 16 * time.Millisecond
	defaultResizeAckTimeout = 5 * time.Second
	defaultNudgeStep        = 32
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Listen:           defaultListen,
		Output:           OutputConfig{Width: 1280, Height: 800},
		FrameInterval:    defaultFrameInterval,
		FadeDuration:     DefaultFadeDuration,
		ResizeAckTimeout: defaultResizeAckTimeout,
		Placement:        "fixed",
		NudgeStep:        defaultNudgeStep,
		Modifier:         "alt",
		LogLevel:         "info",
		SimulatedLatency: 30 * time.Millisecond,
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/headless-compositor/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate config directory")
	}
	return filepath.Join(dir, "headless-compositor", "config.yaml"), nil
}

// LoadConfig reads the config file at path. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to parse yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Output.Width < 1 || c.Output.Height < 1 {
		return errors.Errorf("output size must be positive, got %dx%d", c.Output.Width, c.Output.Height)
	}
	if c.FrameInterval <= 0 {
		return errors.Errorf("frame_interval must be positive, got %s", c.FrameInterval)
	}
	if c.FadeDuration < 0 {
		return errors.Errorf("fade_duration must not be negative, got %s", c.FadeDuration)
	}
	if c.ResizeAckTimeout < 0 {
		return errors.Errorf("resize_ack_timeout must not be negative, got %s", c.ResizeAckTimeout)
	}
	if c.NudgeStep < 1 {
		return errors.Errorf("nudge_step must be at least 1, got %d", c.NudgeStep)
	}
	if _, err := parseModifier(c.Modifier); err != nil {
		return err
	}
	if _, err := newPlacement(c); err != nil {
		return err
	}
	return nil
}

func parseModifier(s string) (Modifiers, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alt", "mod1":
		return ModAlt, nil
	case "super", "logo", "mod4":
		return ModSuper, nil
	case "ctrl", "control":
		return ModCtrl, nil
	}
	return 0, errors.Errorf("unknown modifier %q (want alt, super or ctrl)", s)
}
