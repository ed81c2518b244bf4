package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayoisaiah/studyfocus/app"
	"github.com/ayoisaiah/studyfocus/internal/osutil"
	"github.com/ayoisaiah/studyfocus/report"
)

func run(ctx context.Context, args []string) error {
	return app.Get().RunContext(ctx, args)
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	err := run(ctx, os.Args)

	interrupted := ctx.Err() != nil

	stop()

	switch {
	case err != nil && !errors.Is(err, context.Canceled):
		report.Quit(err, osutil.ExitError)
	case interrupted:
		report.Quit(nil, osutil.ExitInterrupted)
	}
}
