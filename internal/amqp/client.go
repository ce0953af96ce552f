// Package amqp publishes and consumes expense events over RabbitMQ.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rabbitmq/amqp091-go"

	"spendlens/internal/core"
	applog "spendlens/internal/log"
	"spendlens/internal/ports"
)

const publishTimeout = 5 * time.Second

// ErrDeliveriesClosed reports that the broker closed the delivery channel.
var ErrDeliveriesClosed = errors.New("message channel closed")

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

var _ ports.EventPublisher = (*Client)(nil)

// Options tunes the initial connection attempts.
type Options struct {
	MaxElapsed time.Duration // give up dialing after this long; 0 means 30s
}

// NewClient dials url, retrying with exponential backoff until ctx is done or
// opts.MaxElapsed passes, then declares the exchange and queue.
func NewClient(ctx context.Context, url, exchangeName, queueName string, opts Options) (*Client, error) {
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = 30 * time.Second
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = opts.MaxElapsed

	var conn *amqp091.Connection
	dial := func() error {
		c, err := amqp091.Dial(url)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}
	notify := func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "AMQP dial failed, retrying",
			applog.FieldComponent, applog.ComponentAMQP,
			applog.FieldError, err,
			"wait", wait)
	}
	if err := backoff.RetryNotify(dial, backoff.WithContext(bo, ctx), notify); err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// routing key is the queue name
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishExpenseEvent implements ports.EventPublisher.
func (c *Client) PublishExpenseEvent(ctx context.Context, ev core.ExpenseEvent) error {
	msg := NewExpenseEventMessage(ev)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    ev.Timestamp,
			Type:         msg.Type,
			MessageId:    msg.ID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "Published expense event",
		applog.FieldComponent, applog.ComponentAMQP,
		applog.FieldEventType, msg.Type,
		applog.FieldExpenseID, msg.ID,
		"exchange", c.exchangeName)

	return nil
}

// Handler processes one consumed event. A returned error requeues the message.
type Handler func(ctx context.Context, ev core.ExpenseEvent) error

// Consume delivers events to handler until ctx is cancelled.
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming expense events",
		applog.FieldComponent, applog.ComponentAMQP,
		"queue", c.queueName)

	return consume(ctx, msgs, handler)
}

func consume(ctx context.Context, msgs <-chan amqp091.Delivery, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption",
				applog.FieldComponent, applog.ComponentAMQP,
				"reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				// Close during shutdown races ctx.Done.
				if err := ctx.Err(); err != nil {
					return err
				}
				return ErrDeliveriesClosed
			}
			ack := dispatch(ctx, delivery.Body, handler)
			switch ack {
			case ackOK:
				_ = delivery.Ack(false)
			case ackRequeue:
				_ = delivery.Nack(false, true)
			case ackDrop:
				_ = delivery.Nack(false, false)
			}
		}
	}
}

type ackMode int

const (
	ackOK ackMode = iota
	ackRequeue
	ackDrop
)

// dispatch decodes body and runs handler. Malformed messages are dropped,
// handler failures requeued.
func dispatch(ctx context.Context, body []byte, handler Handler) ackMode {
	msg, err := ExpenseEventMessageFromJSON(body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal message",
			applog.FieldComponent, applog.ComponentAMQP,
			applog.FieldError, err)
		return ackDrop
	}
	ev, err := msg.Event()
	if err != nil {
		slog.ErrorContext(ctx, "Invalid expense event",
			applog.FieldComponent, applog.ComponentAMQP,
			applog.FieldExpenseID, msg.ID,
			applog.FieldError, err)
		return ackDrop
	}
	if err := handler(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to handle message",
			applog.FieldComponent, applog.ComponentAMQP,
			applog.FieldError, err,
			applog.FieldEventType, msg.Type,
			applog.FieldExpenseID, msg.ID)
		return ackRequeue
	}
	slog.DebugContext(ctx, "Processed expense event",
		applog.FieldComponent, applog.ComponentAMQP,
		applog.FieldEventType, msg.Type,
		applog.FieldExpenseID, msg.ID)
	return ackOK
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
