package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/stayboard/internal/config"
)

// StartOverrideConsumer connects to RabbitMQ, declares the overrides queue
// (durable) and appends every OverrideAccepted message to the audit log
// file as one human-readable line.  It reconnects with exponential backoff
// and returns only when ctx is cancelled.  Malformed messages are rejected
// without requeue so they cannot block the queue.
func StartOverrideConsumer(ctx context.Context, cfg config.QueueConfig) error {
    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return ctx.Err()
        }
        conn, err := amqp.Dial(cfg.URL)
        if err != nil {
            log.Printf("override-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, cfg)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Printf("override-consumer: consume loop ended: %v; reconnecting", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.QueueConfig) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("override-consumer: set QoS failed: %v", err)
    }
    if _, err := ch.QueueDeclare(cfg.OverridesQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(cfg.OverridesQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := appendOverride(cfg.AuditLogPath, d.Body); err != nil {
                log.Printf("override-consumer: handle message failed: %v", err)
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func appendOverride(path string, body []byte) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    return writeOverride(f, body)
}

// writeOverride formats one OverrideAccepted message as a log line.
func writeOverride(w io.Writer, body []byte) error {
    var ev OverrideAccepted
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    e := ev.Entry
    if e.ID == "" || e.ConflictKey == "" {
        return errors.New("override event without audit id or conflict key")
    }

    ids := make([]string, 0, len(e.Entities))
    for _, ref := range e.Entities {
        ids = append(ids, fmt.Sprintf("%s:%s", ref.Kind, ref.ID))
    }
    line := fmt.Sprintf("[%s] Override accepted | audit_id=%s | conflict=%s | room=%s | severity=%s | actor=%q | entities=[%s] | reason=%q\n",
        e.RecordedAt.UTC().Format(time.RFC3339), e.ID, e.ConflictKey, e.RoomID, e.Severity, e.Actor, strings.Join(ids, ","), e.Justification)

    if _, err := io.WriteString(w, line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
