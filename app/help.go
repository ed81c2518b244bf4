package app

import (
	"fmt"

	"github.com/pterm/pterm"
)

func helpText() string {
	description := fmt.Sprintf(
		"%s\n\t\t{{.Usage}}\n\n",
		pterm.Yellow("DESCRIPTION"),
	)

	usage := fmt.Sprintf(
		"%s\n\t\t{{.HelpName}} {{if .UsageText}}{{ .UsageText }}{{end}}\n\n",
		pterm.Yellow("USAGE"),
	)

	version := fmt.Sprintf(
		"{{if .Version}}%s\n\t\t{{.Version}}{{end}}\n\n",
		pterm.Yellow("VERSION"),
	)

	commands := fmt.Sprintf(
		"%s\n{{range .Commands}}{{if not .HideHelp}}   %s{{ `\t`}}{{.Usage}}{{ `\n` }}{{end}}{{end}}\n\n",
		pterm.Yellow("COMMANDS"),
		pterm.Green("{{join .Names `, `}}"),
	)

	options := fmt.Sprintf(
		"%s\n{{range .VisibleFlags}}\t\t{{if .Aliases}}{{range $element := .Aliases}}%s,{{end}}{{end}} %s\n\t\t\t\t{{.Usage}}\n\n{{end}}",
		pterm.Yellow("OPTIONS"),
		pterm.Green("-{{$element}}"),
		pterm.Green("--{{.Name}} {{.DefaultText}}"),
	)

	env := fmt.Sprintf(
		"%s\n\t\t%s\n\n",
		pterm.Yellow("ENVIRONMENTAL VARIABLES"),
		envHelp(),
	)

	keys := fmt.Sprintf(
		"%s\n\t\t%s\n",
		pterm.Yellow("KEYS"),
		keyHelp(),
	)

	return description + usage + version + commands + options + env + keys
}

func envHelp() string {
	return `
STUDYFOCUS_NO_COLOR, NO_COLOR: set to any value to avoid printing ANSI escape sequences for color output.

STUDYFOCUS_ENV: use a separate config file, snapshot and session database (e.g. 'dev').

STUDYFOCUS_<KEY>: override any config key, e.g. STUDYFOCUS_ACCOUNT_USER_ID or STUDYFOCUS_TIMER_FOCUS_MINUTES.`
}

func keyHelp() string {
	return `
p, space: start or pause the active face
r: reset the active face
s: save the stopwatch
tab: switch between the timer and the stopwatch
1, 2, 3: switch to focus, short break or long break
t: set the current task
q: quit`
}
