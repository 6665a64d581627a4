package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceScale is the number of fractional digits kept on balances and amounts.
const BalanceScale = 2

type Account struct {
	ID        int64
	Name      string
	PinHash   string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// NewAccount returns an unsaved account with a zero balance.
func NewAccount(name, pinHash string) *Account {
	return &Account{
		Name:    name,
		PinHash: pinHash,
		Balance: decimal.Zero.Round(BalanceScale),
	}
}

// ValidAmount reports whether amount is positive and has no digits below BalanceScale.
// Trailing zeros such as 1.500 are accepted.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Truncate(BalanceScale))
}

// ValidateAmount returns an ErrInvalidAmount error for amounts rejected by ValidAmount.
func ValidateAmount(accountID int64, amount decimal.Decimal) error {
	if !ValidAmount(amount) {
		return NewInvalidAmountError(accountID, amount)
	}
	return nil
}

// Credit adds amount to the balance and rounds the result half-up to BalanceScale.
func (a *Account) Credit(amount decimal.Decimal) error {
	if err := ValidateAmount(a.ID, amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Add(amount).Round(BalanceScale)
	return nil
}

// Debit subtracts amount from the balance. The balance is compared with the raw
// amount before anything is applied, so a failed debit leaves the account as is.
func (a *Account) Debit(amount decimal.Decimal) error {
	if err := ValidateAmount(a.ID, amount); err != nil {
		return err
	}
	if a.Balance.LessThan(amount) {
		return NewNotEnoughFundsError(a.ID, a.Balance, amount)
	}
	a.Balance = a.Balance.Sub(amount).Round(BalanceScale)
	return nil
}
