package timer

import (
	"context"
	"os/exec"

	"github.com/kballard/go-shellquote"
)

// SessionCmd returns a Hook that runs the shell-quoted command cmd, or nil
// if cmd is empty.
func SessionCmd(cmd string) (Hook, error) {
	if cmd == "" {
		return nil, nil
	}

	args, err := shellquote.Split(cmd)
	if err != nil {
		return nil, errSessionCmd.Fmt(cmd).Wrap(err)
	}

	if len(args) == 0 {
		return nil, nil
	}

	return func(ctx context.Context) error {
		c := exec.CommandContext(ctx, args[0], args[1:]...)

		err := c.Run()
		if err != nil {
			return errSessionCmd.Fmt(cmd).Wrap(err)
		}

		return nil
	}, nil
}
