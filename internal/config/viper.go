package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "STUDYFOCUS"

const (
	keyFocusMinutes         = "timer.focus_minutes"
	keyShortBreakMinutes    = "timer.short_break_minutes"
	keyLongBreakMinutes     = "timer.long_break_minutes"
	keyLongBreakInterval    = "timer.long_break_interval"
	keyAutoStartBreaks      = "timer.auto_start_breaks"
	keyAutoStartFocus       = "timer.auto_start_focus"
	keyAutoStartDelay       = "timer.auto_start_delay"
	keySoundMuted           = "sound.muted"
	keySoundVolume          = "sound.volume"
	keySoundFile            = "sound.file"
	keyNotificationsEnabled = "notifications.enabled"
	keyUserID               = "account.user_id"
	keyHeartbeat            = "status.heartbeat"
	keyDarkTheme            = "display.dark_theme"
	keyTwentyFourHour       = "display.24hr_clock"
	keySessionCmd           = "system.session_cmd"
	keyRemoteDB             = "system.remote_db"
)

// WithViperConfig returns an Option that loads configuration from the YAML
// file at configPath, creating it from the current values if it does not
// exist yet. Every key can be overridden by a STUDYFOCUS_ prefixed
// environment variable (e.g. STUDYFOCUS_ACCOUNT_USER_ID).
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		setupViper(v, c)

		c.System.ConfigPath = configPath

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper uses the current values of c as defaults so that values
// gathered by the first-run prompt end up in the written file.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyFocusMinutes, c.Timer.FocusMinutes)
	v.SetDefault(keyShortBreakMinutes, c.Timer.ShortBreakMinutes)
	v.SetDefault(keyLongBreakMinutes, c.Timer.LongBreakMinutes)
	v.SetDefault(keyLongBreakInterval, c.Timer.LongBreakInterval)
	v.SetDefault(keyAutoStartBreaks, c.Timer.AutoStartBreaks)
	v.SetDefault(keyAutoStartFocus, c.Timer.AutoStartFocus)
	v.SetDefault(keyAutoStartDelay, c.Timer.AutoStartDelay.String())
	v.SetDefault(keySoundMuted, c.Sound.Muted)
	v.SetDefault(keySoundVolume, c.Sound.Volume)
	v.SetDefault(keySoundFile, c.Sound.File)
	v.SetDefault(keyNotificationsEnabled, c.Notifications.Enabled)
	v.SetDefault(keyUserID, c.Account.UserID)
	v.SetDefault(keyHeartbeat, c.Status.Heartbeat.String())
	v.SetDefault(keyDarkTheme, c.Display.DarkTheme)
	v.SetDefault(keyTwentyFourHour, c.Display.TwentyFourHour)
	v.SetDefault(keySessionCmd, c.System.SessionCmd)
	v.SetDefault(keyRemoteDB, c.System.RemoteDB)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	path := c.System.ConfigPath

	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	c.System.ConfigPath = path

	return nil
}

// parseDuration accepts Go duration strings and bare minute counts.
func parseDuration(s string) (time.Duration, error) {
	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	mins, err := time.ParseDuration(s + "m")
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	return mins, nil
}
