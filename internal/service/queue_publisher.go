package service

// Publishing to RabbitMQ is best effort: failures are logged and returned so
// the caller can decide to ignore them without interrupting the request.

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/rally-club/email-parser/internal/config"
    q "github.com/rally-club/email-parser/internal/queue"
)

// AMQPPublisher dials the broker for every publish and holds no connection
// between calls.
type AMQPPublisher struct {
    URL     string
    Queue   string
    Timeout time.Duration
}

func NewAMQPPublisher(cfg config.QueueConfig) *AMQPPublisher {
    return &AMQPPublisher{URL: cfg.URL, Queue: cfg.Name, Timeout: cfg.PublishTimeout}
}

// PublishReservationParsed publishes ev to the configured durable queue on the
// default exchange.  Messages are marked as persistent.
//
// The dial and the AMQP handshake share the context deadline.  Once the
// connection is open, channel and queue RPCs are bounded by the heartbeat
// rather than ctx, so ctx is checked again between steps.
func (p *AMQPPublisher) PublishReservationParsed(ctx context.Context, ev q.ReservationParsedEvent) error {
    if p.Timeout > 0 {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, p.Timeout)
        defer cancel()
    }

    dialCfg := amqp.Config{
        Heartbeat:  10 * time.Second,
        Locale:     "en_US",
        Properties: amqp.NewConnectionProperties(),
    }
    dialCfg.Properties.SetClientConnectionName("email-parser")
    if deadline, ok := ctx.Deadline(); ok {
        dialCfg.Dial = amqp.DefaultDial(time.Until(deadline))
    }
    if err := ctx.Err(); err != nil {
        return err
    }
    conn, err := amqp.DialConfig(p.URL, dialCfg)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    if err := ctx.Err(); err != nil {
        log.Printf("rabbitmq: gave up after dial: %v", err)
        return err
    }
    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    if err := ctx.Err(); err != nil {
        log.Printf("rabbitmq: gave up after channel open: %v", err)
        return err
    }
    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        p.Queue, // name
        true,    // durable
        false,   // autoDelete
        false,   // exclusive
        false,   // noWait
        nil,     // args
    ); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.EventID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }

    if err := ch.PublishWithContext(ctx,
        "",      // default exchange
        p.Queue, // routing key = queue name
        false,   // mandatory
        false,   // immediate
        pub,
    ); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }

    return nil
}
