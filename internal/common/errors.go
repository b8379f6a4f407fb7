// Package common defines shared constants and sentinel errors used across
// the moodjournal client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Input errors.
	ErrValidation = errors.New("validation error")

	// Session errors.
	ErrAuthentication = errors.New("authentication failed")
	ErrSessionInvalid = errors.New("no authenticated session")

	// Submission phase errors.
	ErrCreation       = errors.New("entry creation failed")
	ErrAnalysis       = errors.New("entry analysis failed")
	ErrSubmitInFlight = errors.New("submission already in progress")

	// Transport errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
