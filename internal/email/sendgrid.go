package email

import (
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"scholarboard/internal/config"
	"scholarboard/pkg/interfaces"
)

// SendGridSender delivers mail through the SendGrid API. Selected when a key
// is configured; otherwise the console backend is used.
type SendGridSender struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
}

var _ interfaces.EmailSender = (*SendGridSender)(nil)

// NewSendGridSender creates the SendGrid backend.
func NewSendGridSender(cfg *config.EmailConfig) *SendGridSender {
	return &SendGridSender{
		client:     sendgrid.NewSendClient(cfg.SendGridKey),
		from:       sgmail.NewEmail(cfg.AppName, cfg.FromAddress),
		subjPrefix: "[" + cfg.AppName + "] ",
	}
}

// Send delivers asynchronously; delivery failures are logged, never returned.
func (s *SendGridSender) Send(to, subject, body string) {
	go func() {
		message := sgmail.NewSingleEmail(s.from, s.subjPrefix+subject, sgmail.NewEmail("", to), body, "")
		resp, err := s.client.Send(message)
		if err != nil {
			log.Printf("Email delivery failed: to=%s err=%v", to, err)
			return
		}
		if resp.StatusCode >= 400 {
			log.Printf("Email delivery rejected: to=%s status=%d", to, resp.StatusCode)
		}
	}()
}

// NewSender picks the backend from configuration.
func NewSender(cfg *config.EmailConfig) interfaces.EmailSender {
	if cfg.SendGridKey != "" {
		return NewSendGridSender(cfg)
	}
	return NewConsoleSender(cfg)
}
