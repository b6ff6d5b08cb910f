// Package notify sends order confirmation mail outside the request path.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/kindones/storefront/pkg/logging"
)

type Confirmation struct {
	RecipientEmail  string
	RecipientName   string
	OrderID         string
	OneTimePassword string
}

type Outcome struct {
	Delivered bool
	Reason    string
}

var ErrNotConfigured = errors.New("mail not configured")

const (
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
)

var textBody = texttemplate.Must(texttemplate.New("text").Parse(
	`Hi {{.Name}},

Thanks for your order #{{.ShortID}}. We have received it and will let you know as it moves along.

Track your order: {{.TrackURL}}
{{if .Password}}
We created an account for you so you can follow this and future orders.
Email: {{.Email}}
Temporary password: {{.Password}}
Please sign in and change your password.
{{end}}
Kind Ones
`))

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(
	`<p>Hi {{.Name}},</p>
<p>Thanks for your order <strong>#{{.ShortID}}</strong>. We have received it and will let you know as it moves along.</p>
<p><a href="{{.TrackURL}}">Track your order</a></p>
{{if .Password}}<div>
<p>We created an account for you so you can follow this and future orders.</p>
<p>Email: <strong>{{.Email}}</strong><br>Temporary password: <strong>{{.Password}}</strong></p>
<p>Please sign in and change your password.</p>
</div>
{{end}}<p>Kind Ones</p>
`))

type view struct {
	Name     string
	Email    string
	ShortID  string
	TrackURL string
	Password string
}

type Mailer struct {
	Sender  Sender
	From    string
	BaseURL string

	Attempts int
	Backoff  time.Duration
}

// ShortID is the first eight characters of the order id, uppercased.
func ShortID(orderID string) string {
	id := orderID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

func (m *Mailer) TrackingURL(orderID string) string {
	return strings.TrimRight(m.BaseURL, "/") + "/orders/" + orderID
}

// Render builds the subject and both bodies for c.
func (m *Mailer) Render(c Confirmation) (Message, error) {
	v := view{
		Name:     c.RecipientName,
		Email:    c.RecipientEmail,
		ShortID:  ShortID(c.OrderID),
		TrackURL: m.TrackingURL(c.OrderID),
		Password: c.OneTimePassword,
	}
	if v.Name == "" {
		v.Name = "there"
	}

	var text, html bytes.Buffer
	if err := textBody.Execute(&text, v); err != nil {
		return Message{}, fmt.Errorf("render text: %w", err)
	}
	if err := htmlBody.Execute(&html, v); err != nil {
		return Message{}, fmt.Errorf("render html: %w", err)
	}

	return Message{
		From:    m.From,
		To:      c.RecipientEmail,
		Subject: fmt.Sprintf("Order #%s confirmed", v.ShortID),
		Text:    text.Bytes(),
		HTML:    html.Bytes(),
	}, nil
}

// SendOrderConfirmation never returns an error. Transient failures are
// retried with linear backoff; the final result is reported in the Outcome.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, c Confirmation) Outcome {
	l := logging.FromContext(ctx).With("svc", "notify", "order_id", c.OrderID)

	if m.Sender == nil || m.From == "" {
		l.Warn("confirmation_not_sent", "reason", ErrNotConfigured.Error())
		return Outcome{Reason: ErrNotConfigured.Error()}
	}
	if c.RecipientEmail == "" {
		l.Warn("confirmation_not_sent", "reason", "no recipient")
		return Outcome{Reason: "no recipient"}
	}

	msg, err := m.Render(c)
	if err != nil {
		l.Error("confirmation_not_sent", "reason", "render failed", "error", err)
		return Outcome{Reason: err.Error()}
	}

	attempts := m.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	backoff := m.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	for i := 1; ; i++ {
		err = m.Sender.Send(ctx, msg)
		if err == nil {
			l.Info("confirmation_sent", "attempt", i)
			return Outcome{Delivered: true}
		}
		if i >= attempts || ctx.Err() != nil {
			break
		}
		l.Warn("confirmation_retry", "attempt", i, "error", err)
		select {
		case <-ctx.Done():
		case <-time.After(backoff * time.Duration(i)):
		}
	}

	l.Error("confirmation_failed", "attempts", attempts, "error", err)
	return Outcome{Reason: err.Error()}
}
