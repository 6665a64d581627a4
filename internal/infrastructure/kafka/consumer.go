package kafka_infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageHandler func(ctx context.Context, message kafka.Message) error

type ConsumerConfig struct {
	Brokers         []string
	Topic           string
	GroupID         string
	FetchTimeout    time.Duration
	HandlerTimeout  time.Duration
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
}

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader  messageReader
	cfg     ConsumerConfig
	logger  *zap.Logger
	handler MessageHandler
}

func NewConsumer(cfg ConsumerConfig, handler MessageHandler, l *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
		ErrorLogger:    kafka.LoggerFunc(l.Sugar().Errorf),
	})

	return newConsumer(cfg, reader, handler, l)
}

func newConsumer(cfg ConsumerConfig, reader messageReader, handler MessageHandler, l *zap.Logger) *Consumer {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = 25 * time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.MaxRetryBackoff < cfg.RetryBackoff {
		cfg.MaxRetryBackoff = max(30*time.Second, cfg.RetryBackoff)
	}
	return &Consumer{
		reader:  reader,
		cfg:     cfg,
		logger:  l,
		handler: handler,
	}
}

// Consume fetches messages until ctx is cancelled. A failed message is retried
// with backoff and its offset is committed only after the handler succeeds, so
// the partition does not advance past it.
func (c *Consumer) Consume(ctx context.Context) error {
	c.logger.Info("Kafka consumer starting",
		zap.String("topic", c.cfg.Topic),
		zap.String("group_id", c.cfg.GroupID),
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fetchCtx, cancelFetch := context.WithTimeout(ctx, c.cfg.FetchTimeout)
		m, err := c.reader.FetchMessage(fetchCtx)
		cancelFetch()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if errors.Is(err, kafka.ErrGroupClosed) || errors.Is(err, io.EOF) {
				c.logger.Info("Kafka reader closed, stopping consumer", zap.String("topic", c.cfg.Topic))
				return nil
			}
			c.logger.Error("Error fetching message from Kafka", zap.Error(err), zap.String("topic", c.cfg.Topic))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		if err := c.handle(ctx, m); err != nil {
			c.logger.Info("Kafka consumer stopped before message was handled",
				zap.String("topic", m.Topic),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset))
			return err
		}

		commitCtx, cancelCommit := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if err := c.reader.CommitMessages(commitCtx, m); err != nil {
			c.logger.Error("Failed to commit offset for message",
				zap.String("topic", m.Topic),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err))
		}
		cancelCommit()
	}
}

// handle runs the handler until it succeeds. It returns only ctx's error.
func (c *Consumer) handle(ctx context.Context, m kafka.Message) error {
	backoff := c.cfg.RetryBackoff
	for attempt := 1; ; attempt++ {
		handleCtx, cancelHandler := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.HandlerTimeout)
		err := c.handler(handleCtx, m)
		cancelHandler()
		if err == nil {
			return nil
		}

		c.logger.Error("Error handling Kafka message, will retry",
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, c.cfg.MaxRetryBackoff)
	}
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka consumer reader: %w", err)
	}
	c.logger.Info("Kafka consumer reader closed", zap.String("topic", c.cfg.Topic))
	return nil
}
