package recorder

import "github.com/ayoisaiah/studyfocus/internal/apperr"

var (
	ErrTooShort = &apperr.Error{
		Message: "session of %ds not saved: sessions shorter than %ds are not recorded",
	}

	ErrUnauthenticated = &apperr.Error{
		Message: "session not saved: sign in by setting account.user_id in the config file",
	}

	ErrPersist = &apperr.Error{
		Message: "saving %ds session failed",
	}
)
