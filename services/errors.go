package services

import "errors"

// Sentinel errors for the handler layer to map onto HTTP statuses. Services
// wrap these with fmt.Errorf("...: %w", ...) to carry a human readable
// message.
var (
	ErrValidation      = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrUnauthorized    = errors.New("not authorized")
	ErrConflict        = errors.New("already exists")
)
