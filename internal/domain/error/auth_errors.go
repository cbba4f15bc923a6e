package error

import "errors"

// Account errors. Signup and login report them through AuthError; the
// token middleware reports ErrInvalidToken directly.
var (
	// ErrUserNotFound means no account is registered under the email.
	// Login reports it as ErrInvalidCredentials so emails cannot be probed.
	ErrUserNotFound = errors.New("account not found")

	// ErrEmailAlreadyExists means the email is taken, either by an earlier
	// signup or by one that won the race on the unique index.
	ErrEmailAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken means a bearer token failed signature or expiry checks.
	ErrInvalidToken = errors.New("invalid token")

	// ErrWeakPassword means the password is shorter than eight characters.
	ErrWeakPassword = errors.New("password too short")

	// ErrInvalidEmail means the email is not of the form local@domain.tld.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrMissingFields means name, email or password is blank.
	ErrMissingFields = errors.New("all fields are required")
)

// AuthErrorCode is the public code of an account error.
// Format: AUTH-XXYYYY where XX is the flow and YYYY the case.
type AuthErrorCode string

const (
	// Signup (01XXXX)
	ErrCodeEmailExists   AuthErrorCode = "AUTH-010001"
	ErrCodeWeakPassword  AuthErrorCode = "AUTH-010003"
	ErrCodeInvalidEmail  AuthErrorCode = "AUTH-010004"
	ErrCodeMissingFields AuthErrorCode = "AUTH-010005"

	// Login (02XXXX)
	ErrCodeInvalidCredentials AuthErrorCode = "AUTH-020001"
	ErrCodeRateLimited        AuthErrorCode = "AUTH-020003"

	// Bearer token (03XXXX), written by the auth middleware
	ErrCodeInvalidToken AuthErrorCode = "AUTH-030001"
	ErrCodeMissingToken AuthErrorCode = "AUTH-030003"
)

// AuthError carries a public code and message over an optional cause.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates an AuthError.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
