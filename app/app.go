// Package app defines the studyfocus command-line interface
package app

import (
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/studyfocus/internal/config"
)

// Get retrieves the studyfocus app instance.
func Get() *cli.App {
	return &cli.App{
		Name: "studyfocus",
		Usage: `
		StudyFocus is a study timer for the command-line. It alternates focus
		phases with short and long breaks, offers a stopwatch for open-ended
		sessions and records every minute you study.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
			{
				Name:   "log",
				Usage:  "Record a study session you did not time with studyfocus",
				Flags:  []cli.Flag{durationFlag, endFlag, taskFlag, taskIDFlag},
				Action: logAction,
			},
			{
				Name: "sessions",
				Usage: `
				List recorded sessions with the time studied on each day. Defaults
				to a reporting period of 7 days`,
				Flags:  []cli.Flag{sinceFlag, periodFlag, jsonFlag},
				Action: sessionsAction,
			},
			{
				Name:   "status",
				Usage:  "Print the presence last published for your account",
				Flags:  []cli.Flag{jsonFlag},
				Action: statusAction,
			},
			{
				Name:   "privacy",
				Usage:  "Show or change whether other users can see your current task",
				Flags:  []cli.Flag{showTaskFlag, hideTaskFlag},
				Action: privacyAction,
			},
		},
		Flags:  append([]cli.Flag{noColorFlag, debugFlag}, timerFlags...),
		Action: defaultAction,
		Before: beforeAction,
		After:  afterAction,
	}
}
