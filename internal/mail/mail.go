package mail

import (
	"context"

	"gopkg.in/gomail.v2"
)

// Message is one outbound email with both bodies.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// SMTPSender delivers messages over SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP builds a sender for the given SMTP endpoint.
func NewSMTP(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one message. The context is accepted for interface symmetry;
// gomail does not support cancellation mid-dial.
func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return s.dialer.DialAndSend(m)
}
