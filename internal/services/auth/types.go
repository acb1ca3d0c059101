package auth

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrUserNotFound       = errors.New("user not found")
)

// SessionPayload is the identity embedded in the session token. The token
// is the session: nothing is stored server-side.
type SessionPayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// User is the minimal profile returned to clients after login. It never
// carries the password hash.
type User struct {
	ID    string
	Email string
	Name  string
	Role  string
}
