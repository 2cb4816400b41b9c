package auth

import (
	"errors"

	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
)

// User-facing messages
const (
	LoginFailedMessage        = "Login failed."
	LogoutFailedMessage       = "Logout failed"
	RegistrationFailedMessage = "Registration failed. The API might not allow public signups."
)

var (
	MissingCredentialsErr = errors.New("username and password are required")
	EmptyTokenResponseErr = errors.New("login response did not include an access token")
)

// LoginError carries the message to show for a rejected login
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	return e.Message
}

func (e *LoginError) Unwrap() []error {
	return []error{apperrors.ErrLoginFailed, e.Err}
}

// RegistrationError is returned when signup fails for a reason other than
// field validation
type RegistrationError struct {
	Err error
}

func (e *RegistrationError) Error() string {
	return RegistrationFailedMessage
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
