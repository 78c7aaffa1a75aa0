package domain

import "errors"

// Error taxonomy shared by services and transport. Services wrap these with
// %w and a human-readable reason; handlers map them to status codes.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConflict       = errors.New("conflict")
	ErrBusy           = errors.New("resource busy")
)
