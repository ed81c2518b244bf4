package config

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Focus             string
	ShortBreak        string
	LongBreak         string
	Task              string
	TaskID            string
	SessionCmd        string
	Sound             string
	LongBreakInterval uint
	Volume            int
	DisableNotify     bool
	Mute              bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Focus:             ctx.String("focus"),
			ShortBreak:        ctx.String("short-break"),
			LongBreak:         ctx.String("long-break"),
			LongBreakInterval: ctx.Uint("long-break-interval"),
			Task:              ctx.String("task"),
			TaskID:            ctx.String("task-id"),
			SessionCmd:        ctx.String("session-cmd"),
			Sound:             ctx.String("sound"),
			DisableNotify:     ctx.Bool("disable-notification"),
			Mute:              ctx.Bool("mute"),
			Volume:            -1,
		}

		if ctx.IsSet("volume") {
			opts.Volume = ctx.Int("volume")
		}

		return applyCLIOptions(c, opts)
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) error {
	if err := applyCLIDurations(c, opts); err != nil {
		return err
	}

	if opts.Task != "" {
		c.CLI.Task.Label = strings.TrimSpace(opts.Task)
	}

	if opts.TaskID != "" {
		c.CLI.Task.ID = strings.TrimSpace(opts.TaskID)
	}

	if opts.DisableNotify {
		c.Notifications.Enabled = false
	}

	if opts.Mute {
		c.Sound.Muted = true
	}

	if opts.Volume >= 0 {
		c.Sound.Volume = opts.Volume
	}

	if opts.Sound != "" {
		if opts.Sound == "off" {
			c.Sound.Muted = true
		} else {
			c.Sound.File = opts.Sound
		}
	}

	if opts.SessionCmd != "" {
		c.System.SessionCmd = opts.SessionCmd
	}

	return nil
}

// applyCLIDurations handles parsing and applying duration settings from CLI.
func applyCLIDurations(c *Config, opts CLIOptions) error {
	durations := []struct {
		target *int
		name   string
		value  string
	}{
		{&c.Timer.FocusMinutes, "focus", opts.Focus},
		{&c.Timer.ShortBreakMinutes, "short break", opts.ShortBreak},
		{&c.Timer.LongBreakMinutes, "long break", opts.LongBreak},
	}

	for _, d := range durations {
		if d.value == "" {
			continue
		}

		dur, err := parseDuration(d.value)
		if err != nil {
			return errInvalidCLIDuration.Fmt(d.name, err)
		}

		*d.target = int(dur.Minutes())
	}

	if opts.LongBreakInterval > 0 {
		c.Timer.LongBreakInterval = int(opts.LongBreakInterval)
	}

	return nil
}
