package router

import "errors"

var (
	ErrSenderNotConnected    = errors.New("sender not connected")
	ErrUnauthorizedEventType = errors.New("role not authorized to emit this event type")
	ErrRateLimitExceeded     = errors.New("rate limit exceeded: 100 events per minute")
)
