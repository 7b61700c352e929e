package interfaces

import "errors"

// Common errors crossing component boundaries.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("record already exists")
	ErrUnauthorized = errors.New("unauthorized access")
)
