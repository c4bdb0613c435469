package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already registered")
)

// Service-level errors
var (
	// ErrInvalidCredentials is returned for both unknown usernames and
	// wrong passwords so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	ErrUnauthenticated = errors.New("could not validate credentials")
	ErrUserInactive    = errors.New("user account is inactive")
)
