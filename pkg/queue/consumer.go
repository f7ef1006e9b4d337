package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"experience-market/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler processes one message body. A returned error drops the message.
type Handler func(ctx context.Context, body []byte) error

type Consumer struct {
	url      string
	queue    string
	prefetch int
	log      *zap.Logger
}

func NewConsumer(config utils.BrokerConfig, log *zap.Logger) *Consumer {
	return &Consumer{
		url:      config.URL,
		queue:    config.Queue,
		prefetch: 20,
		log:      log.With(zap.String("queue", config.Queue)),
	}
}

// Run consumes until ctx is cancelled, reconnecting with backoff when the
// broker goes away
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("Failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn, handle)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}

		c.log.Warn("Consume loop ended, reconnecting", zap.Error(err))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		c.log.Warn("Failed to set QoS", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.queue, err)
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.log.Info("Consuming")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handle(ctx, d.Body); err != nil {
				c.log.Error("Message dropped", zap.Error(err), zap.Uint64("delivery_tag", d.DeliveryTag))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
