package authcore

import "errors"

var (
	// ErrInvalidInput is an exported constant or variable used by the authentication core.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is an exported constant or variable used by the authentication core.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is an exported constant or variable used by the authentication core.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountExists is an exported constant or variable used by the authentication core.
	ErrAccountExists = errors.New("account already exists")
	// ErrPasswordPolicy is an exported constant or variable used by the authentication core.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrSessionNotFound is an exported constant or variable used by the authentication core.
	ErrSessionNotFound = errors.New("session not found")
	// ErrPasswordResetDisabled is an exported constant or variable used by the authentication core.
	ErrPasswordResetDisabled = errors.New("password reset disabled")
	// ErrResetInvalid is an exported constant or variable used by the authentication core.
	ErrResetInvalid = errors.New("password reset token invalid")
	// ErrResetAttempts is an exported constant or variable used by the authentication core.
	ErrResetAttempts = errors.New("password reset attempts exceeded")
	// ErrBearerDisabled is an exported constant or variable used by the authentication core.
	ErrBearerDisabled = errors.New("bearer tokens disabled")
	// ErrTokenInvalid is an exported constant or variable used by the authentication core.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrEngineNotReady is an exported constant or variable used by the authentication core.
	ErrEngineNotReady = errors.New("engine not initialized")
)
