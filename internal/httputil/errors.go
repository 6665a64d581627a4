package httputil

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"bankdemo/internal/domain"
)

var ErrValidation = errors.New("validation failed")

// Invalid builds a request validation error answered with 400.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StatusFor maps an error returned by a service to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotEnoughFunds),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidPageRequest),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrWrongPin):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrIDMatching):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError answers with the mapped status. Unmapped errors are logged
// and hidden behind a generic message.
func WriteServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
		WriteError(w, code, "Internal server error")
		return
	}
	logger.Info("Request rejected", zap.Int("status", code), zap.Error(err))
	WriteError(w, code, err.Error())
}
