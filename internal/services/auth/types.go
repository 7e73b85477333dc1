package auth

import "errors"

var (
	// ErrMissingCredentials is reported before any store access when the
	// submitted username or password is empty.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so callers cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionNotFound covers missing, revoked and expired sessions alike.
	ErrSessionNotFound = errors.New("session not found")
)
