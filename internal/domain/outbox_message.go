package domain

import "time"

type OutboxMessageStatus string

const (
	OutboxStatusPending OutboxMessageStatus = "PENDING"
	OutboxStatusSent    OutboxMessageStatus = "SENT"
	OutboxStatusFailed  OutboxMessageStatus = "FAILED"
)

const AggregateTypeAccount = "account"

// OutboxMessage is an event stored in the same transaction as the change that
// produced it and published to Kafka afterwards.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	MessageType   string
	Topic         string
	Key           string
	Payload       []byte
	Status        OutboxMessageStatus
	CreatedAt     time.Time
	SentAt        *time.Time
}
