package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
 ____  _             _       _____
/ ___|| |_ _   _  __| |_   _|  ___|__   ___ _   _ ___
\___ \| __| | | |/ _  | | | | |_ / _ \ / __| | | / __|
 ___) | |_| |_| | (_| | |_| |  _| (_) | (__| |_| \__ \
|____/ \__|\__,_|\__,_|\__, |_|  \___/ \___|\__,_|___/
                       |___/`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	UserID             string
	FocusDuration      int
	ShortBreakDuration int
	LongBreakDuration  int
	LongBreakInterval  int
}

// WithPromptConfig returns an Option that configures settings via interactive prompts.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		return applyPromptOptions(c, opts)
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	var opts PromptOptions

	// Display welcome message
	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure studyfocus for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Edit the config file with 'studyfocus edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Focus phase length").
				Options(
					huh.NewOption("25 minutes", 25).Selected(true),
					huh.NewOption("35 minutes", 35),
					huh.NewOption("50 minutes", 50),
					huh.NewOption("60 minutes", 60),
					huh.NewOption("90 minutes", 90),
				).
				Value(&opts.FocusDuration),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Short break length").
				Options(
					huh.NewOption("5 minutes", 5).Selected(true),
					huh.NewOption("10 minutes", 10),
					huh.NewOption("15 minutes", 15),
					huh.NewOption("20 minutes", 20),
				).
				Value(&opts.ShortBreakDuration),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Long break length").
				Options(
					huh.NewOption("15 minutes", 15).Selected(true),
					huh.NewOption("20 minutes", 20),
					huh.NewOption("30 minutes", 30),
					huh.NewOption("45 minutes", 45),
				).
				Value(&opts.LongBreakDuration),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Focus phases before a long break").
				Options(
					huh.NewOption("4 phases", 4).Selected(true),
					huh.NewOption("6 phases", 6),
					huh.NewOption("8 phases", 8),
				).
				Value(&opts.LongBreakInterval),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Account ID").
				Description("Leave empty to keep sessions unsynced").
				Value(&opts.UserID),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) error {
	c.Timer.FocusMinutes = opts.FocusDuration
	c.Timer.ShortBreakMinutes = opts.ShortBreakDuration
	c.Timer.LongBreakMinutes = opts.LongBreakDuration
	c.Timer.LongBreakInterval = opts.LongBreakInterval
	c.Account.UserID = strings.TrimSpace(opts.UserID)

	return nil
}
