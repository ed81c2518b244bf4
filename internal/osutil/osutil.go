// Package osutil holds platform names, exit codes and file modes shared by
// the studyfocus packages
package osutil

const (
	Windows = "windows"
	Darwin  = "darwin"
)

type ExitCode int

const (
	ExitOK    ExitCode = 0
	ExitError ExitCode = 1
	// ExitInterrupted is used when the process stops on SIGINT or SIGTERM.
	ExitInterrupted ExitCode = 130
)

const (
	DirPermission  = 0o750
	FilePermission = 0o600
)
