package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// ErrNotConfigured is returned by Send when no Mailgun domain or key is set.
var ErrNotConfigured = errors.New("mailgun is not configured")

// Message is one outgoing email. HTML is optional.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain  string
	APIKey  string
	Sender  string
	BaseURL string // optional, e.g. the EU region endpoint
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Configured reports whether Send can reach Mailgun.
func (m *Mailgun) Configured() bool {
	return m != nil && m.Domain != "" && m.APIKey != ""
}

// Send delivers msg and returns the Mailgun message id.
func (m *Mailgun) Send(ctx context.Context, msg Message) (string, error) {
	if !m.Configured() {
		return "", ErrNotConfigured
	}
	client := mg.NewMailgun(m.Domain, m.APIKey)
	if m.BaseURL != "" {
		client.SetAPIBase(m.BaseURL)
	}
	out := client.NewMessage(m.Sender, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		out.SetHtml(msg.HTML)
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, id, err := client.Send(c, out)
	return id, err
}
