package auth

import "errors"

var (
	// ErrValidation covers malformed input (missing email, weak password).
	ErrValidation = errors.New("invalid input")

	// ErrInvalidCredentials is deliberately undifferentiated: callers must
	// not learn whether the identifier or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict is returned when the identity already exists.
	ErrConflict = errors.New("identity already exists")

	// ErrUnauthorized covers missing, invalid, expired, and revoked tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken is returned by the codec for any verification failure:
	// bad signature, malformed payload, wrong token class, expired.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNotFound is returned when a privileged operation targets an absent
	// principal.
	ErrNotFound = errors.New("principal not found")
)

// ValidationError names the failing field and carries a client-facing
// message. It matches ErrValidation under errors.Is so transport code can
// keep switching on the sentinel.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
