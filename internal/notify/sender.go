package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/jordan-wright/email"
)

type Message struct {
	From    string
	To      string
	Subject string
	Text    []byte
	HTML    []byte
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SMTPSender delivers through an authenticated SMTP relay such as Resend.
type SMTPSender struct {
	Addr     string
	Username string
	Password string
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	host, _, err := net.SplitHostPort(s.Addr)
	if err != nil {
		return fmt.Errorf("smtp addr %q: %w", s.Addr, err)
	}

	e := email.NewEmail()
	e.From = m.From
	e.To = []string{m.To}
	e.Subject = m.Subject
	e.Text = m.Text
	e.HTML = m.HTML

	if err := e.Send(s.Addr, smtp.PlainAuth("", s.Username, s.Password, host)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Discard drops every message. Used when mail is not configured.
type Discard struct{}

func (Discard) Send(context.Context, Message) error { return nil }
