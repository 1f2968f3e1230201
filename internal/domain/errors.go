package domain

import "errors"

var (
	// ErrNotConfigured marks calls rejected because a required URL or credential is missing.
	ErrNotConfigured = errors.New("dependency not configured")
	// ErrMalformedResponse marks a successful transport with an unexpected payload shape.
	ErrMalformedResponse = errors.New("malformed upstream response")
)
