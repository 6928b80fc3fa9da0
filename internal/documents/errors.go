package documents

import "errors"

var (
	ErrNotFound          = errors.New("document not found")
	ErrConflict          = errors.New("analysis already in progress")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
)
