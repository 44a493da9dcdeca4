package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// HandlerFunc processes one job body.  A non-nil error rejects the delivery.
type HandlerFunc func(ctx context.Context, body []byte) error

// Consumer pulls jobs from a durable queue with manual acknowledgement and
// fans them out to a fixed pool of goroutines.  Failed jobs are rejected
// without requeue; nothing is retried automatically.
type Consumer struct {
	URL         string
	Queue       string
	Concurrency int
	Handler     HandlerFunc
	// OnFailed, when set, observes every rejected job.
	OnFailed func(body []byte, err error)
	// JobTimeout bounds a single Handler call (default 1 minute).
	JobTimeout time.Duration
	Log        *zap.Logger
}

const maxBackoff = 30 * time.Second

// Run dials the broker and consumes until ctx is cancelled.  Connection
// failures are retried with exponential backoff; Run only returns ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
	log := c.logger()
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Warn("dial broker failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("consume loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	workers := c.workers()
	if err := ch.Qos(workers, 0, false); err != nil {
		c.logger().Warn("set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.logger().Info("consuming", zap.Int("workers", workers))

	// closing the channel on shutdown drains msgs and stops the workers
	stop := context.AfterFunc(ctx, func() { _ = ch.Close() })
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range msgs {
				c.process(ctx, d)
			}
		}()
	}
	wg.Wait()
	return errors.New("deliveries channel closed")
}

// process runs the handler for one delivery and acknowledges it.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	timeout := c.JobTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := c.Handler(jobCtx, d.Body); err != nil {
		c.logger().Error("job failed", zap.Error(err), zap.ByteString("body", d.Body))
		_ = d.Nack(false, false)
		if c.OnFailed != nil {
			c.OnFailed(d.Body, err)
		}
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) workers() int {
	if c.Concurrency < 1 {
		return 1
	}
	return c.Concurrency
}

func (c *Consumer) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log.With(zap.String("queue", c.Queue))
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
