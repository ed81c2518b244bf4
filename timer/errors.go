package timer

import "github.com/ayoisaiah/studyfocus/internal/apperr"

var (
	// ErrModeConflict is returned when starting one face while the other is
	// running.
	ErrModeConflict = &apperr.Error{
		Message: "cannot start the %s while the %s is running: pause it first",
	}

	errInvalidSoundFormat = &apperr.Error{
		Message: "sound file must be in mp3, ogg, flac, or wav format",
	}

	errSessionCmd = &apperr.Error{
		Message: "unable to run session_cmd %q",
	}
)
