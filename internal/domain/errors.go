package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalid marks input rejected by validation; wrap it with details.
	ErrInvalid = errors.New("invalid input")
)
