package app

import "github.com/ayoisaiah/studyfocus/internal/apperr"

var (
	errParseTime = &apperr.Error{
		Message: "unable to understand %q as a point in time",
	}

	errFutureEnd = &apperr.Error{
		Message: "a session cannot end in the future",
	}

	errUnknownPeriod = &apperr.Error{
		Message: "unknown period %q: use today, yesterday, 7days, 14days, 30days, 90days or 365days",
	}

	errPrivacyFlags = &apperr.Error{
		Message: "--show-task and --hide-task cannot be used together",
	}
)
