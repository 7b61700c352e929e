package types

import "errors"

var (
	ErrInvalidUserID    = errors.New("user ID must be 1-50 characters, alphanumeric + underscore/hyphen only")
	ErrInvalidEventType = errors.New("invalid event type")
	ErrInvalidRole      = errors.New("invalid role: must be 'admin' or 'student'")
	ErrInvalidPayload   = errors.New("invalid JSON payload")
	ErrEmptyPayload     = errors.New("event has no payload")
	ErrPayloadTooLarge  = errors.New("event payload exceeds 64KB limit")
)
