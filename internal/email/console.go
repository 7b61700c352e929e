package email

import (
	"log"
	"sync"

	"scholarboard/internal/config"
	"scholarboard/pkg/interfaces"
)

// ConsoleSender writes mail to the log. Default backend for development and
// tests; sent messages are recorded so tests can assert on them.
type ConsoleSender struct {
	from       string
	subjPrefix string

	mu   sync.Mutex
	sent []Message
}

// Message is one delivered notification, kept for inspection.
type Message struct {
	To      string
	Subject string
	Body    string
}

var _ interfaces.EmailSender = (*ConsoleSender)(nil)

// NewConsoleSender creates the console backend.
func NewConsoleSender(cfg *config.EmailConfig) *ConsoleSender {
	return &ConsoleSender{
		from:       cfg.FromAddress,
		subjPrefix: "[" + cfg.AppName + "] ",
	}
}

// Send logs the message and records it.
func (s *ConsoleSender) Send(to, subject, body string) {
	msg := Message{To: to, Subject: s.subjPrefix + subject, Body: body}

	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()

	log.Printf("Email: to=%s subject=%q", msg.To, msg.Subject)
}

// SentMessages returns a copy of everything sent so far.
func (s *ConsoleSender) SentMessages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
