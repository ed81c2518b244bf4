// Package config loads studyfocus settings from the config file, the
// first-run prompt and command-line flags
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ayoisaiah/studyfocus/internal/models"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Timer         TimerConfig        `mapstructure:"timer"`
		Sound         SoundConfig        `mapstructure:"sound"`
		Notifications NotificationConfig `mapstructure:"notifications"`
		Account       AccountConfig      `mapstructure:"account"`
		Status        StatusConfig       `mapstructure:"status"`
		Display       DisplayConfig      `mapstructure:"display"`
		System        SystemConfig       `mapstructure:"system"`
		CLI           CLIConfig          `mapstructure:"-"`
	}

	// TimerConfig holds the focus/break cycle settings.
	TimerConfig struct {
		FocusMinutes      int           `mapstructure:"focus_minutes"`
		ShortBreakMinutes int           `mapstructure:"short_break_minutes"`
		LongBreakMinutes  int           `mapstructure:"long_break_minutes"`
		LongBreakInterval int           `mapstructure:"long_break_interval"`
		AutoStartDelay    time.Duration `mapstructure:"auto_start_delay"`
		AutoStartBreaks   bool          `mapstructure:"auto_start_breaks"`
		AutoStartFocus    bool          `mapstructure:"auto_start_focus"`
	}

	// SoundConfig holds completion cue settings.
	SoundConfig struct {
		File   string `mapstructure:"file"`
		Volume int    `mapstructure:"volume"`
		Muted  bool   `mapstructure:"muted"`
	}

	// NotificationConfig holds desktop notification settings.
	NotificationConfig struct {
		Enabled bool `mapstructure:"enabled"`
	}

	// AccountConfig identifies the signed-in user.
	AccountConfig struct {
		UserID string `mapstructure:"user_id"`
	}

	// StatusConfig holds presence settings.
	StatusConfig struct {
		Heartbeat time.Duration `mapstructure:"heartbeat"`
	}

	// DisplayConfig holds display-related settings.
	DisplayConfig struct {
		DarkTheme      bool `mapstructure:"dark_theme"`
		TwentyFourHour bool `mapstructure:"24hr_clock"`
	}

	// SystemConfig holds system-related settings.
	SystemConfig struct {
		ConfigPath string `mapstructure:"-"`
		SessionCmd string `mapstructure:"session_cmd"`
		RemoteDB   string `mapstructure:"remote_db"`
	}

	// CLIConfig holds values that only come from the command line.
	CLIConfig struct {
		Task models.Task
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.1.0"

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// Duration returns the configured length of phase p.
func (c *Config) Duration(p models.Phase) time.Duration {
	switch p {
	case models.PhaseShortBreak:
		return time.Duration(c.Timer.ShortBreakMinutes) * time.Minute
	case models.PhaseLongBreak:
		return time.Duration(c.Timer.LongBreakMinutes) * time.Minute
	default:
		return time.Duration(c.Timer.FocusMinutes) * time.Minute
	}
}

// AutoStart reports whether phase p starts by itself once the previous
// phase completes.
func (c *Config) AutoStart(p models.Phase) bool {
	if p.IsBreak() {
		return c.Timer.AutoStartBreaks
	}

	return c.Timer.AutoStartFocus
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			FocusMinutes:      25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
			LongBreakInterval: 4,
			AutoStartBreaks:   true,
			AutoStartDelay:    3 * time.Second,
		},
		Sound: SoundConfig{
			Volume: 80,
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Status: StatusConfig{
			Heartbeat: time.Minute,
		},
		Display: DisplayConfig{
			DarkTheme: true,
		},
	}
}

// New creates a new Config with default values, applies options, then
// validates the result.
func New(opts ...Option) (*Config, error) {
	cfg := Default()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errConfigValidation, err)
	}

	return cfg, nil
}
