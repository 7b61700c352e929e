package client

import "log"

// Notifier surfaces user-visible notifications. The event core never returns
// errors to UI code; every failure becomes a notification at this boundary.
type Notifier interface {
	Info(title, message string)
	Warn(title, message string)
	Error(title, message string)
}

// LogNotifier writes notifications to the process log. The default when no
// UI toast implementation is wired in.
type LogNotifier struct{}

func (LogNotifier) Info(title, message string) {
	log.Printf("NOTIFY info: %s: %s", title, message)
}

func (LogNotifier) Warn(title, message string) {
	log.Printf("NOTIFY warn: %s: %s", title, message)
}

func (LogNotifier) Error(title, message string) {
	log.Printf("NOTIFY error: %s: %s", title, message)
}
