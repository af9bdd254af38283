package model

import "errors"

var (
	// ErrInvalidCredentials covers every token verification failure: empty,
	// malformed, tampered and expired tokens all collapse into it so callers
	// cannot probe which check rejected them.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is a lookup miss. Anonymous lookups treat it as
	// "absent", not as a failure.
	ErrUserNotFound = errors.New("user not found")
)
