package client

import "errors"

var (
	ErrNotConnected    = errors.New("channel is not connected")
	ErrHandshakeFailed = errors.New("channel handshake failed")
	ErrNoSession       = errors.New("no active session")
	ErrNoStoredToken   = errors.New("no stored token")
)
