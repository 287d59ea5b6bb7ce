package main

import (
	"errors"
)

// loginFailedMessage is reported for every rejected login.
const loginFailedMessage = "Login has failed for the game website"

// ErrInvalidDelayRange indicates a delay range with negative or inverted bounds.
var ErrInvalidDelayRange = errors.New("invalid delay range")

// ErrInvalidBaseURL indicates the configured base URL could not be decoded.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// =============================================================================
// Login Errors
// =============================================================================

// LoginError reports that the game website rejected the submitted credentials.
// The site signals this by leaving the browser on the login page instead of
// redirecting, so it is not worth retrying with the same credentials.
type LoginError struct {
	// Endpoint is the login URL the response ended up on.
	Endpoint string
}

func (e *LoginError) Error() string {
	return loginFailedMessage
}

// IsLoginError checks if the error is, or wraps, a LoginError.
func IsLoginError(err error) bool {
	if err == nil {
		return false
	}
	var le *LoginError
	return errors.As(err, &le)
}
