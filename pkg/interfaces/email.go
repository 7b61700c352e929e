package interfaces

// EmailSender delivers notification mail. Delivery is best-effort and
// asynchronous; callers never block on it.
type EmailSender interface {
	Send(to, subject, body string)
}
