// Package worker consumes order events off the queue.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"styleshop/pkg/mailer"
	"styleshop/pkg/rabbitmq"
)

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

const textBody = `Hi {{if .Name}}{{.Name}}{{else}}there{{end}},

Thanks for shopping at {{.Shop}}. We received your order {{.OrderNumber}}.

Items:   {{.Items}}
Total:   ₹{{printf "%.2f" .Total}}
Payment: {{.Payment}}

We will let you know when it ships.
`

const htmlBody = `<p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
<p>Thanks for shopping at {{.Shop}}. We received your order <strong>{{.OrderNumber}}</strong>.</p>
<table>
<tr><td>Items</td><td>{{.Items}}</td></tr>
<tr><td>Total</td><td>&#8377;{{printf "%.2f" .Total}}</td></tr>
<tr><td>Payment</td><td>{{.Payment}}</td></tr>
</table>
<p>We will let you know when it ships.</p>`

var (
	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(textBody))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody))
)

type view struct {
	rabbitmq.OrderPlacedEvent
	Shop string
}

// OrderConfirmation emails the customer when an order.placed event arrives.
type OrderConfirmation struct {
	sender Sender
	shop   string
	log    logrus.FieldLogger
}

func NewOrderConfirmation(sender Sender, shopName string, log logrus.FieldLogger) *OrderConfirmation {
	return &OrderConfirmation{sender: sender, shop: shopName, log: log}
}

// Render builds the email for evt.
func (w *OrderConfirmation) Render(evt rabbitmq.OrderPlacedEvent) (mailer.Message, error) {
	v := view{OrderPlacedEvent: evt, Shop: w.shop}
	var text, html bytes.Buffer
	if err := textTmpl.Execute(&text, v); err != nil {
		return mailer.Message{}, err
	}
	if err := htmlTmpl.Execute(&html, v); err != nil {
		return mailer.Message{}, err
	}
	return mailer.Message{
		To:      evt.Email,
		Subject: fmt.Sprintf("%s order %s confirmed", w.shop, evt.OrderNumber),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// Handle is a rabbitmq.Handler.
func (w *OrderConfirmation) Handle(ctx context.Context, d amqp.Delivery) error {
	var evt rabbitmq.OrderPlacedEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		return fmt.Errorf("%w: decode order event: %v", rabbitmq.ErrPermanent, err)
	}
	entry := w.log.WithField("order_number", evt.OrderNumber)
	if evt.Event != "" && evt.Event != "order.placed" {
		entry.WithField("event", evt.Event).Debug("ignoring event")
		return nil
	}
	if evt.Email == "" {
		entry.Warn("order event without recipient, skipping confirmation")
		return nil
	}

	msg, err := w.Render(evt)
	if err != nil {
		return fmt.Errorf("%w: render confirmation: %v", rabbitmq.ErrPermanent, err)
	}
	id, err := w.sender.Send(ctx, msg)
	if errors.Is(err, mailer.ErrNotConfigured) {
		entry.Info("mail delivery not configured, confirmation dropped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("send confirmation for %s: %w", evt.OrderNumber, err)
	}
	entry.WithField("message_id", id).Info("order confirmation sent")
	return nil
}
