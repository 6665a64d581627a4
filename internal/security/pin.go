package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"bankdemo/internal/domain"
)

// PinEncoder hashes and verifies account PINs.
type PinEncoder interface {
	Encode(rawPin string) (string, error)
	Verify(rawPin, storedHash string, accountID int64) error
}

type bcryptPinEncoder struct {
	cost int
}

func NewBcryptPinEncoder(cost int) PinEncoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptPinEncoder{cost: cost}
}

func (e *bcryptPinEncoder) Encode(rawPin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPin), e.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

// Verify returns a WrongPin error for the account when rawPin does not match.
func (e *bcryptPinEncoder) Verify(rawPin, storedHash string, accountID int64) error {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(rawPin))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.NewWrongPinError(accountID)
	}
	return fmt.Errorf("failed to verify pin for account %d: %w", accountID, err)
}
