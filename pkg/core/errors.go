package core

import "errors"

// Common errors.
var (
	ErrNotFound = errors.New("document not found")
	ErrReadOnly = errors.New("repository is in read-only mode")
	ErrEmptyID  = errors.New("document ID cannot be empty")
)
