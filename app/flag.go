package app

import "github.com/urfave/cli/v2"

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Write debug messages to the log file",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the system notification that appears after a phase is completed",
	}

	muteFlag = &cli.BoolFlag{
		Name:    "mute",
		Aliases: []string{"m"},
		Usage:   "Do not play a sound when a phase is completed",
	}

	volumeFlag = &cli.IntFlag{
		Name:  "volume",
		Usage: "Completion sound volume from 0 to 100 (default: 80)",
	}

	soundFlag = &cli.StringFlag{
		Name:  "sound",
		Usage: "Path to an mp3, ogg, flac or wav file played when a phase is completed. Defaults to a short bell",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after each completed focus phase",
	}

	taskFlag = &cli.StringFlag{
		Name:    "task",
		Aliases: []string{"t"},
		Usage:   "What you are studying. Attached to every recorded session",
	}

	taskIDFlag = &cli.StringFlag{
		Name:  "task-id",
		Usage: "Identifier of the task in an external planner",
	}

	shortBreakFlag = &cli.StringFlag{
		Name:    "short-break",
		Aliases: []string{"s"},
		Usage:   "Short break duration in minutes (default: 5)",
	}

	longBreakFlag = &cli.StringFlag{
		Name:    "long-break",
		Aliases: []string{"l"},
		Usage:   "Long break duration in minutes (default: 15)",
	}

	longBreakIntervalFlag = &cli.UintFlag{
		Name:    "long-break-interval",
		Aliases: []string{"int"},
		Usage:   "The number of focus phases before a long break (default: 4)",
	}

	focusFlag = &cli.StringFlag{
		Name:    "focus",
		Aliases: []string{"f"},
		Usage:   "Focus duration in minutes (default: 25)",
	}

	durationFlag = &cli.DurationFlag{
		Name:     "duration",
		Required: true,
		Usage:    "How long you studied (e.g. 45m, 1h30m)",
	}

	endFlag = &cli.StringFlag{
		Name:  "end",
		Usage: "When the session ended (e.g. '20 minutes ago'). Defaults to now",
	}

	sinceFlag = &cli.StringFlag{
		Name:  "since",
		Usage: "List sessions recorded after this point (e.g. '3 days ago', '2025-04-01')",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "List sessions from a predefined period: today, yesterday, 7days, 14days, 30days, 90days, 365days",
		Value:   string(periodDefault),
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	showTaskFlag = &cli.BoolFlag{
		Name:  "show-task",
		Usage: "Show your current task to other users",
	}

	hideTaskFlag = &cli.BoolFlag{
		Name:  "hide-task",
		Usage: "Hide your current task from other users",
	}
)

// timerFlags are accepted by every command that builds a Config.
var timerFlags = []cli.Flag{
	focusFlag,
	shortBreakFlag,
	longBreakFlag,
	longBreakIntervalFlag,
	taskFlag,
	taskIDFlag,
	soundFlag,
	volumeFlag,
	muteFlag,
	disableNotificationFlag,
	sessionCmdFlag,
}
