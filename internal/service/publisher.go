// Package service holds the application logic between the HTTP handlers
// and the stores: account lifecycle, the upload pipeline and file reads.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/files-manager/internal/queue"
)

// dialTimeout bounds the broker handshake on the request path.
const dialTimeout = 2 * time.Second

// Publisher enqueues background jobs on RabbitMQ.  It dials per call, which
// keeps the request path free of long-lived broker state.  Failures are
// returned, not logged; callers own that decision.
type Publisher struct {
	url         string
	dialTimeout time.Duration
	log         *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, dialTimeout: dialTimeout, log: log}
}

// PublishThumbnail enqueues derivative generation for an image node.
func (p *Publisher) PublishThumbnail(ctx context.Context, fileID, userID string) error {
	return p.publish(ctx, queue.ThumbnailQueue, queue.ThumbnailJob{FileID: fileID, UserID: userID})
}

// PublishWelcome enqueues the welcome job for a new account.
func (p *Publisher) PublishWelcome(ctx context.Context, userID string) error {
	return p.publish(ctx, queue.WelcomeQueue, queue.WelcomeJob{UserID: userID})
}

func (p *Publisher) publish(ctx context.Context, name string, job any) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	timeout := p.dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return fmt.Errorf("rabbitmq dial: %w", context.DeadlineExceeded)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", name, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.log.Debug("job published", zap.String("queue", name))
	return nil
}
