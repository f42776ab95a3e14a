package cluedo

import "errors"

var (
	ErrTeamNotFound  = errors.New("team not found")
	ErrCaseNotFound  = errors.New("case not found")
	ErrTokenNotFound = errors.New("reset token not found")
	ErrTokenExpired  = errors.New("reset token expired")

	// ErrNoCasesAvailable means the team has played every case of the
	// requested language. It is an expected end state, not a fault.
	ErrNoCasesAvailable = errors.New("no more cases available")

	ErrAlreadyPlayed      = errors.New("case already played by this team")
	ErrInvalidLanguage    = errors.New("unsupported language")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateName      = errors.New("nickname already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("not authorized")
)

// ValidationError reports bad caller input. Msg is safe to show to clients.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
