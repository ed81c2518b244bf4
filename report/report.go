// Package report prints command outcomes to the terminal
package report

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/studyfocus/internal/apperr"
	"github.com/ayoisaiah/studyfocus/internal/osutil"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
	"github.com/ayoisaiah/studyfocus/recorder"
)

// SessionSaved confirms a save made from the command line.
func SessionSaved(res recorder.Result) {
	var secs int

	for _, r := range res.Records {
		secs += r.Duration
	}

	mins, s := timeutil.SecsToMinsAndSecs(float64(secs))

	pterm.Success.Printfln(
		"saved %dm %ds of study time in %d row(s)",
		mins,
		s,
		len(res.Records),
	)
}

func Info(format string, args ...any) {
	pterm.Info.Printfln(format, args...)
}

func Error(err error) {
	pterm.Error.Println(apperr.Message(err))
}

// Quit prints err and exits with code.
func Quit(err error, code osutil.ExitCode) {
	if err != nil {
		Error(err)
	}

	os.Exit(int(code))
}
