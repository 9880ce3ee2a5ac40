package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no session exists
	ErrAuthNotFound = errors.New("authentication data not found")
)
