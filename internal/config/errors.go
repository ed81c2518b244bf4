package config

import "github.com/ayoisaiah/studyfocus/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errInvalidCLIDuration = &apperr.Error{
		Message: "invalid %s duration: %v",
	}

	errShortBreakTooLong = &apperr.Error{
		Message: "short break (%d mins) must be shorter than the focus phase (%d mins)",
	}

	errLongBreakTooShort = &apperr.Error{
		Message: "long break (%d mins) must not be shorter than the short break (%d mins)",
	}

	errInvalidSoundFormat = &apperr.Error{
		Message: "invalid sound file format: %s (must be mp3, ogg, flac, or wav)",
	}

	errSoundNotFound = &apperr.Error{
		Message: "sound file not found: %s",
	}

	errInvalidDuration = &apperr.Error{
		Message: "%s must be between %d and %d minutes",
	}

	errInvalidLongBreakInterval = &apperr.Error{
		Message: "long break interval must be between %d and %d focus phases",
	}

	errInvalidVolume = &apperr.Error{
		Message: "volume must be between 0 and 100, got %d",
	}

	errInvalidDelay = &apperr.Error{
		Message: "%s must not be negative",
	}
)
