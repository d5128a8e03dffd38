// Package service holds the desk's outbound integrations.  Publisher sends
// delegated actions, accepted overrides and hold releases to RabbitMQ.
// Errors are logged and returned so callers decide whether a failed
// publish matters for the request.
package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/stayboard/internal/config"
)

// EventPublisher is what handlers depend on.
type EventPublisher interface {
    Publish(ctx context.Context, queue string, v any) error
}

// Publisher dials the broker per message, like the booking-confirmed
// publisher it grew from.  Desk writes are rare enough that a pooled
// connection buys nothing.
type Publisher struct {
    url     string
    timeout time.Duration
}

func NewPublisher(cfg config.QueueConfig) *Publisher {
    return &Publisher{url: cfg.URL, timeout: cfg.PublishTimeout}
}

// Publish marshals v as JSON and sends it as a persistent message to the
// durable queue of that name through the default exchange.
func (p *Publisher) Publish(ctx context.Context, queue string, v any) error {
    if p.timeout > 0 {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, p.timeout)
        defer cancel()
    }

    body, err := json.Marshal(v)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    conn, err := amqp.Dial(p.url)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(
        queue, // name
        true,  // durable
        false, // autoDelete
        false, // exclusive
        false, // noWait
        nil,   // args
    ); err != nil {
        log.Printf("rabbitmq: queue declare %s failed: %v", queue, err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish to %s failed: %v", queue, err)
        return err
    }
    return nil
}

// LogPublisher stands in when QUEUE_ENABLED=false.  It writes the event to
// the process log and never fails.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, queue string, v any) error {
    body, err := json.Marshal(v)
    if err != nil {
        return err
    }
    log.Printf("queue disabled: %s <- %s", queue, body)
    return nil
}

// NewEventPublisher picks the broker publisher or the log stand-in.
func NewEventPublisher(cfg config.QueueConfig) EventPublisher {
    if !cfg.Enabled {
        return LogPublisher{}
    }
    return NewPublisher(cfg)
}
