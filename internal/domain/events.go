package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MessageTypeAccountDeposit  = "account.deposit"
	MessageTypeAccountWithdraw = "account.withdraw"
)

// AccountOperationEvent is published after every committed deposit or withdrawal.
type AccountOperationEvent struct {
	TransactionID int64           `json:"transaction_id"`
	AccountID     int64           `json:"account_id"`
	Operation     Operation       `json:"operation"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// DepositRequestedEvent is consumed from Kafka and credited to an account once.
type DepositRequestedEvent struct {
	EventID   string          `json:"event_id"`
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func MessageTypeFor(op Operation) string {
	if op == OperationWithdraw {
		return MessageTypeAccountWithdraw
	}
	return MessageTypeAccountDeposit
}
