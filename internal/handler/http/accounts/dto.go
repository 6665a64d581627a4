package accounts_http

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"bankdemo/internal/domain"
	"bankdemo/internal/httputil"
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

const maxNameLength = 255

type CreateAccountRequest struct {
	Name string `json:"name"`
	Pin  string `json:"pin"`
}

func (r CreateAccountRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return httputil.Invalid("name must not be blank")
	}
	if utf8.RuneCountInString(r.Name) > maxNameLength {
		return httputil.Invalid("name must be at most %d characters", maxNameLength)
	}
	return validatePin(r.Pin)
}

type DepositRequest struct {
	ToAccountID int64           `json:"toAccountId"`
	Amount      decimal.Decimal `json:"amount"`
}

func (r DepositRequest) Validate() error {
	if err := validateAccountID("toAccountId", r.ToAccountID); err != nil {
		return err
	}
	return validateAmount(r.Amount)
}

type WithdrawRequest struct {
	FromAccountID int64           `json:"fromAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Pin           string          `json:"pin"`
}

func (r WithdrawRequest) Validate() error {
	if err := validateAccountID("fromAccountId", r.FromAccountID); err != nil {
		return err
	}
	if err := validateAmount(r.Amount); err != nil {
		return err
	}
	return validatePin(r.Pin)
}

type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountId"`
	ToAccountID   int64           `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Pin           string          `json:"pin"`
}

func (r TransferRequest) Validate() error {
	if err := validateAccountID("fromAccountId", r.FromAccountID); err != nil {
		return err
	}
	if err := validateAccountID("toAccountId", r.ToAccountID); err != nil {
		return err
	}
	if err := validateAmount(r.Amount); err != nil {
		return err
	}
	return validatePin(r.Pin)
}

func validatePin(pin string) error {
	if !pinPattern.MatchString(pin) {
		return httputil.Invalid("pin must be exactly 4 digits")
	}
	return nil
}

func validateAccountID(field string, id int64) error {
	if id <= 0 {
		return httputil.Invalid("%s must be a positive integer", field)
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return httputil.Invalid("amount must be greater than zero")
	}
	if !domain.ValidAmount(amount) {
		return httputil.Invalid("amount must have at most %d decimal places", domain.BalanceScale)
	}
	return nil
}

type AccountResponse struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Balance json.Number `json:"balance"`
}

type AccountSummaryResponse struct {
	Name    string      `json:"name"`
	Balance json.Number `json:"balance"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(domain.BalanceScale))
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{ID: a.ID, Name: a.Name, Balance: money(a.Balance)}
}

func toAccountSummary(a domain.Account) AccountSummaryResponse {
	return AccountSummaryResponse{Name: a.Name, Balance: money(a.Balance)}
}
