package notify

import (
	"github.com/wneessen/go-mail"

	"greencart_back_end/internal/config"
)

// SMTPMailer sends through an authenticated SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	sender   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		sender:   cfg.SMTPSender,
	}
}

func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}
	return client.DialAndSend(msg)
}
