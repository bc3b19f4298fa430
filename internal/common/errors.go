// Package common defines shared constants and sentinel errors used across
// the back-office service layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Service-level errors.
	ErrForbidden  = errors.New("forbidden")
	ErrInternal   = errors.New("internal error")
	ErrValidation = errors.New("invalid input")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
