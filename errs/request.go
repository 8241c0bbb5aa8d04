package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")
)

// Authentication & Session Errors
var (
	ErrMissingToken   = errors.New("missing access token")
	ErrInvalidToken   = errors.New("invalid access token")
	ErrSessionExpired = errors.New("session expired")
	ErrSessionRevoked = errors.New("session revoked")
	ErrBadCredentials = errors.New("invalid email or password")
)

// Input Validation Errors
var (
	ErrNameTaken       = errors.New("name already exists")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrInvalidSlug     = errors.New("name cannot be turned into a URL slug")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownLogType  = errors.New("unknown vibe log type")
)

func Malformed(payloadName string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, payloadName+" malformed")
}

func BadRequest(message string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, message)
}

// NewValidationError creates a field-level validation error.
func NewValidationError(field, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        errors.New(message),
		Field:      field,
	}
}

// Authentication & Session Error Constructors

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    "Sign in to perform this action",
		Field:      "authorization",
	}
}

func NewInvalidTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Invalid access token",
		Field:      "authorization",
	}
}

func NewSessionExpiredError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrSessionExpired,
		Details:    "Session has expired, sign in again",
		Field:      "authorization",
	}
}

func NewSessionRevokedError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrSessionRevoked,
		Details:    "Session is no longer valid",
		Field:      "authorization",
	}
}

func NewBadCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrBadCredentials,
	}
}

// Validation Error Constructors

func NewNameTakenError(name string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrNameTaken,
		Details:    fmt.Sprintf("A project named %q already exists, choose a different name", name),
		Field:      "name",
	}
}

func NewUsernameTakenError(username string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrUsernameTaken,
		Details:    fmt.Sprintf("Username %q is already in use", username),
		Field:      "username",
	}
}

func NewInvalidSlugError(name string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidSlug,
		Details:    fmt.Sprintf("%q contains no usable characters", name),
		Field:      "name",
	}
}

// Error Type Checkers

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsSessionExpiredError(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func IsNameTakenError(err error) bool {
	return errors.Is(err, ErrNameTaken)
}
