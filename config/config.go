// Package config loads the TimerBoard application settings from a YAML file.
// A missing file is not an error: defaults are used and written back so the
// user has something to edit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the location of the configuration file.
const EnvConfigPath = "TIMERBOARD_CONFIG"

// EnvLang overrides the configured UI language.
const EnvLang = "TIMERBOARD_LANG"

type Config struct {
	App   AppConfig   `yaml:"app"`
	Sound SoundConfig `yaml:"sound"`
	Log   LogConfig   `yaml:"log"`
}

type AppConfig struct {
	Name         string `yaml:"name"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	Language     string `yaml:"language"` // empty means detect from the system locale
	Theme        string `yaml:"theme"`    // "dark", "light" or empty for the system setting
}

type SoundConfig struct {
	Enabled     bool    `yaml:"enabled"`
	StartFreq   float64 `yaml:"start_freq"`
	StopFreq    float64 `yaml:"stop_freq"`
	DurationMs  int     `yaml:"duration_ms"`
	SampleRate  int     `yaml:"sample_rate"`
	VolumeShift float64 `yaml:"volume_shift"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:         "TimerBoard",
			WindowWidth:  360,
			WindowHeight: 520,
		},
		Sound: SoundConfig{
			Enabled:     true,
			StartFreq:   880,
			StopFreq:    440,
			DurationMs:  180,
			SampleRate:  44100,
			VolumeShift: -1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() (err error) {
	if c.App.WindowWidth <= 0 {
		err = multierr.Append(err, fmt.Errorf("app.window_width must be positive, got %d", c.App.WindowWidth))
	}
	if c.App.WindowHeight <= 0 {
		err = multierr.Append(err, fmt.Errorf("app.window_height must be positive, got %d", c.App.WindowHeight))
	}
	if c.Sound.Enabled {
		if c.Sound.SampleRate <= 0 {
			err = multierr.Append(err, fmt.Errorf("sound.sample_rate must be positive, got %d", c.Sound.SampleRate))
		}
		if c.Sound.DurationMs <= 0 {
			err = multierr.Append(err, fmt.Errorf("sound.duration_ms must be positive, got %d", c.Sound.DurationMs))
		}
		if c.Sound.StartFreq <= 0 || c.Sound.StopFreq <= 0 {
			err = multierr.Append(err, errors.New("sound frequencies must be positive"))
		}
	}
	switch strings.ToLower(c.App.Theme) {
	case "", "dark", "light":
	default:
		err = multierr.Append(err, fmt.Errorf("app.theme %q is not one of dark, light", c.App.Theme))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return
}

type Manager struct {
	config     *Config
	configPath string
}

// NewManager loads the configuration from the default location, or from
// the path in TIMERBOARD_CONFIG when it is set.
func NewManager() (*Manager, error) {
	configPath := strings.TrimSpace(os.Getenv(EnvConfigPath))
	if configPath == "" {
		configDir, err := getConfigDir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(configDir, "config.yaml")
	}
	return NewManagerAt(configPath)
}

// NewManagerAt loads the configuration stored at configPath.
func NewManagerAt(configPath string) (*Manager, error) {
	m := &Manager{configPath: configPath}

	if err := m.loadConfig(); err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return nil, err
		}
		m.config = DefaultConfig()
		if err := m.SaveConfig(); err != nil {
			return nil, err
		}
	}

	if lang := strings.TrimSpace(os.Getenv(EnvLang)); lang != "" {
		m.config.App.Language = lang
	}

	if err := m.config.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid configuration "+m.configPath)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return errors.WithMessage(err, "read config")
	}

	// Start from the defaults so a partial file only overrides what it names.
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.WithMessage(err, "parse config "+m.configPath)
	}

	m.config = config
	return nil
}

// SaveConfig writes the current configuration back to disk.
func (m *Manager) SaveConfig() error {
	data, err := yaml.Marshal(m.config)
	if err != nil {
		return errors.WithMessage(err, "marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return errors.WithMessage(err, "create config dir")
	}

	return errors.WithMessage(os.WriteFile(m.configPath, data, 0644), "write config")
}

func (m *Manager) GetConfig() *Config {
	return m.config
}

func (m *Manager) Path() string {
	return m.configPath
}

func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WithMessage(err, "locate home dir")
	}
	return filepath.Join(homeDir, ".timerboard"), nil
}
