package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	minPhaseMinutes = 1
	maxPhaseMinutes = 720 // 12 hours

	minLongBreakInterval = 2
	maxLongBreakInterval = 10

	soundExts = []string{".mp3", ".ogg", ".flac", ".wav"}
)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	phases := []struct {
		name    string
		minutes int
	}{
		{"focus duration", c.Timer.FocusMinutes},
		{"short break duration", c.Timer.ShortBreakMinutes},
		{"long break duration", c.Timer.LongBreakMinutes},
	}

	for _, p := range phases {
		if p.minutes < minPhaseMinutes || p.minutes > maxPhaseMinutes {
			return errInvalidDuration.Fmt(p.name, minPhaseMinutes, maxPhaseMinutes)
		}
	}

	if c.Timer.ShortBreakMinutes >= c.Timer.FocusMinutes {
		return errShortBreakTooLong.Fmt(
			c.Timer.ShortBreakMinutes,
			c.Timer.FocusMinutes,
		)
	}

	if c.Timer.LongBreakMinutes < c.Timer.ShortBreakMinutes {
		return errLongBreakTooShort.Fmt(
			c.Timer.LongBreakMinutes,
			c.Timer.ShortBreakMinutes,
		)
	}

	if c.Timer.LongBreakInterval < minLongBreakInterval ||
		c.Timer.LongBreakInterval > maxLongBreakInterval {
		return errInvalidLongBreakInterval.Fmt(
			minLongBreakInterval,
			maxLongBreakInterval,
		)
	}

	if c.Timer.AutoStartDelay < 0 {
		return errInvalidDelay.Fmt(keyAutoStartDelay)
	}

	if c.Status.Heartbeat < 0 {
		return errInvalidDelay.Fmt(keyHeartbeat)
	}

	if c.Sound.Volume < 0 || c.Sound.Volume > 100 {
		return errInvalidVolume.Fmt(c.Sound.Volume)
	}

	if c.Sound.File != "" {
		return validateSound(c.Sound.File)
	}

	return nil
}

func validateSound(path string) error {
	ext := strings.ToLower(filepath.Ext(path))

	if !slices.Contains(soundExts, ext) {
		return errInvalidSoundFormat.Fmt(path)
	}

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return errSoundNotFound.Fmt(path)
	}

	return nil
}
