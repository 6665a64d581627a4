package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bankdemo/internal/domain"
	"bankdemo/internal/infrastructure/database"
	kafka_infra "bankdemo/internal/infrastructure/kafka"
	"bankdemo/internal/repository/outbox_repo"
)

type Processor struct {
	tx            database.Transactor
	outboxRepo    outbox_repo.OutboxRepository
	kafkaProducer kafka_infra.Producer
	batchSize     int
	pollInterval  time.Duration
	pollTimeout   time.Duration
	logger        *zap.Logger
}

func NewProcessor(
	tx database.Transactor,
	outboxRepo outbox_repo.OutboxRepository,
	kafkaProducer kafka_infra.Producer,
	batchSize int,
	pollInterval time.Duration,
	pollTimeout time.Duration,
	logger *zap.Logger,
) *Processor {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &Processor{
		tx:            tx,
		outboxRepo:    outboxRepo,
		kafkaProducer: kafkaProducer,
		batchSize:     batchSize,
		pollInterval:  pollInterval,
		pollTimeout:   pollTimeout,
		logger:        logger,
	}
}

// Start polls the outbox until ctx is cancelled. It blocks.
func (p *Processor) Start(ctx context.Context) {
	p.logger.Info("Starting outbox processor", zap.Duration("poll_interval", p.pollInterval))
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox processor stopped")
			return
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("Outbox batch failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes up to batchSize pending messages inside one
// transaction and marks each published one as SENT. Publishing stops at the
// first producer error; messages marked so far are still committed. Delivery
// is at-least-once.
func (p *Processor) ProcessBatch(ctx context.Context) (int, error) {
	sent := 0
	err := p.tx.WithinTx(ctx, func(ctx context.Context, q domain.Querier) error {
		queryCtx, cancel := context.WithTimeout(ctx, p.pollTimeout)
		messages, err := p.outboxRepo.GetPendingMessages(queryCtx, q, p.batchSize)
		cancel()
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			return nil
		}
		p.logger.Debug("Found pending outbox messages", zap.Int("count", len(messages)))

		for _, msg := range messages {
			if err := p.kafkaProducer.Produce(ctx, msg.Topic, msg.Key, msg.Payload); err != nil {
				p.logger.Warn("Failed to publish outbox message, will retry",
					zap.String("message_id", msg.ID),
					zap.String("topic", msg.Topic),
					zap.Error(err))
				break
			}
			if err := p.outboxRepo.UpdateMessageStatusTx(ctx, q, msg.ID, domain.OutboxStatusSent); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if sent > 0 {
		p.logger.Info("Published outbox messages", zap.Int("count", sent))
	}
	return sent, nil
}
