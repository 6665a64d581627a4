package kafka_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"bankdemo/internal/app/accounts"
	"bankdemo/internal/domain"
	kafka_infra "bankdemo/internal/infrastructure/kafka"
)

// DepositRequestedMessageHandler credits deposit requests consumed from Kafka.
// Undecodable messages are logged and skipped.
func DepositRequestedMessageHandler(accountService accounts.AccountService, logger *zap.Logger) kafka_infra.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event domain.DepositRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("Failed to unmarshal deposit request",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			return nil
		}
		if event.EventID == "" {
			logger.Error("Deposit request without event_id skipped",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset))
			return nil
		}

		inboxMsg := &domain.InboxMessage{
			ID:             event.EventID,
			KafkaTopic:     msg.Topic,
			KafkaPartition: msg.Partition,
			KafkaOffset:    msg.Offset,
			Payload:        msg.Value,
			ReceivedAt:     time.Now(),
		}

		if err := accountService.ProcessIncomingDepositEvent(ctx, inboxMsg, event); err != nil {
			return fmt.Errorf("failed to process deposit request %s for account %d: %w", event.EventID, event.AccountID, err)
		}
		return nil
	}
}
