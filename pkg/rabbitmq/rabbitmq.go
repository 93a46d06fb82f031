package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// OrderEventsQueue receives one message per placed order.
const OrderEventsQueue = "order_events"

// ErrPermanent marks a message that can never be processed. Such messages
// are dropped instead of requeued.
var ErrPermanent = errors.New("permanent message failure")

// OrderPlacedEvent is published after an order has been committed.
type OrderPlacedEvent struct {
	Event       string    `json:"event"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      string    `json:"userId"`
	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name,omitempty"`
	Items       int       `json:"items"`
	Total       float64   `json:"total"`
	Payment     string    `json:"paymentMethod"`
	PlacedAt    time.Time `json:"placedAt"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // amqp channels are not safe for concurrent publishing
	log     logrus.FieldLogger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Prefetch int
}

// NewClient connects to RabbitMQ, opens a channel and declares the order queue.
func NewClient(cfg Config, log logrus.FieldLogger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err = ch.QueueDeclare(
		OrderEventsQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", OrderEventsQueue, err)
	}

	if cfg.Prefetch > 0 {
		if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to set prefetch: %w", err)
		}
	}

	log.WithField("queue", OrderEventsQueue).Info("rabbitmq connected")

	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishOrderPlaced publishes a persistent order.placed message.
func (c *Client) PublishOrderPlaced(ctx context.Context, evt OrderPlacedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if evt.Event == "" {
		evt.Event = "order.placed"
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",               // default exchange
		OrderEventsQueue, // routing key: the queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			MessageId:    evt.OrderID,
		})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	c.log.WithField("order_number", evt.OrderNumber).Debug("order event published")
	return nil
}

// Handler processes one delivery. Returning nil acknowledges it.
type Handler func(ctx context.Context, msg amqp.Delivery) error

// Consume delivers order events to handler until ctx is cancelled or the
// channel closes.
func (c *Client) Consume(ctx context.Context, consumer string, handler Handler) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		OrderEventsQueue, // queue
		consumer,         // consumer tag
		false,            // auto-ack
		false,            // exclusive
		false,            // no-local
		false,            // no-wait
		nil,              // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.WithField("queue", OrderEventsQueue).Info("waiting for order events")
	for {
		select {
		case <-ctx.Done():
			_ = c.channel.Cancel(consumer, false)
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			dispatch(ctx, c.log, msg, handler)
		}
	}
}

// dispatch runs handler and settles the delivery: ack on success, drop on a
// permanent failure, requeue otherwise.
func dispatch(ctx context.Context, log logrus.FieldLogger, msg amqp.Delivery, handler Handler) {
	entry := log.WithField("delivery_tag", msg.DeliveryTag)
	err := handler(ctx, msg)
	switch {
	case err == nil:
		if ackErr := msg.Ack(false); ackErr != nil {
			entry.WithError(ackErr).Warn("ack failed")
		}
	case errors.Is(err, ErrPermanent):
		entry.WithError(err).Error("dropping message")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			entry.WithError(nackErr).Warn("nack failed")
		}
	default:
		entry.WithError(err).Warn("message processing failed, requeueing")
		if nackErr := msg.Nack(false, true); nackErr != nil {
			entry.WithError(nackErr).Warn("nack failed")
		}
	}
}
