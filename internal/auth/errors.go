package auth

import "errors"

var (
	// ErrMissingAPIKey is returned when no credential accompanies the request.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidAPIKey is returned when the presented key matches no user.
	ErrInvalidAPIKey = errors.New("invalid API key")
)
