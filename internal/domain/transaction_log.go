package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Operation string

const (
	OperationDeposit  Operation = "DEPOSIT"
	OperationWithdraw Operation = "WITHDRAW"
)

// TransactionLog is an append-only record of one balance change.
type TransactionLog struct {
	ID         int64
	Operation  Operation
	Amount     decimal.Decimal
	AccountID  int64
	OccurredAt time.Time
}

func NewTransactionLog(accountID int64, op Operation, amount decimal.Decimal) *TransactionLog {
	return &TransactionLog{
		Operation: op,
		Amount:    amount.Round(BalanceScale),
		AccountID: accountID,
	}
}
