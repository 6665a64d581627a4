package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound         = errors.New("account not found")
	ErrNotEnoughFunds          = errors.New("not enough funds")
	ErrWrongPin                = errors.New("wrong pin")
	ErrIDMatching              = errors.New("transfer to the same account")
	ErrEntityCreation          = errors.New("entity creation failed")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrMessageAlreadyProcessed = errors.New("message already processed")
)

// OperationError carries the account and amounts involved in a rejected
// operation. It unwraps to one of the sentinel kinds above.
type OperationError struct {
	Kind      error
	AccountID int64
	Balance   decimal.Decimal
	Amount    decimal.Decimal
	Detail    string
}

func (e *OperationError) Error() string {
	switch e.Kind {
	case ErrAccountNotFound:
		return fmt.Sprintf("Account with id: %d not found", e.AccountID)
	case ErrNotEnoughFunds:
		return fmt.Sprintf("There are not enough funds in the account with ID: %d. Current balance: %s. Attempt to withdraw: %s",
			e.AccountID, e.Balance.StringFixed(BalanceScale), e.Amount.String())
	case ErrWrongPin:
		return fmt.Sprintf("Wrong pin for account with ID: %d", e.AccountID)
	case ErrIDMatching:
		return fmt.Sprintf("not a valid operation, the account with ID %d is trying to transfer funds to itself", e.AccountID)
	case ErrInvalidAmount:
		if !e.Amount.IsPositive() {
			return fmt.Sprintf("amount must be greater than zero, got %s", e.Amount.String())
		}
		return fmt.Sprintf("amount must have at most %d decimal places, got %s", BalanceScale, e.Amount.String())
	case ErrEntityCreation:
		return fmt.Sprintf("entity conversion error: %s", e.Detail)
	}
	return e.Kind.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Kind
}

func NewAccountNotFoundError(accountID int64) error {
	return &OperationError{Kind: ErrAccountNotFound, AccountID: accountID}
}

func NewNotEnoughFundsError(accountID int64, balance, amount decimal.Decimal) error {
	return &OperationError{Kind: ErrNotEnoughFunds, AccountID: accountID, Balance: balance, Amount: amount}
}

func NewWrongPinError(accountID int64) error {
	return &OperationError{Kind: ErrWrongPin, AccountID: accountID}
}

func NewIDMatchingError(accountID int64) error {
	return &OperationError{Kind: ErrIDMatching, AccountID: accountID}
}

func NewInvalidAmountError(accountID int64, amount decimal.Decimal) error {
	return &OperationError{Kind: ErrInvalidAmount, AccountID: accountID, Amount: amount}
}

func NewEntityCreationError(detail string) error {
	return &OperationError{Kind: ErrEntityCreation, Detail: detail}
}
