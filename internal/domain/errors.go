package domain

import "errors"

var (
	// ErrDuplicateConnection means the transport issued the same connection id
	// twice. Not recoverable in-process; callers must surface it, not absorb it.
	ErrDuplicateConnection = errors.New("connection id already registered")

	// ErrUnknownConnection means a mutating registry call named a connection
	// with no live entry. Benign for disconnect, a logic error for join/leave.
	ErrUnknownConnection = errors.New("connection not registered")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is deactivated")
)
