package transactions_http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bankdemo/internal/app/transactions"
	"bankdemo/internal/domain"
	"bankdemo/internal/httputil"
)

type TransactionLogResponse struct {
	Operation domain.Operation `json:"operation"`
	Amount    json.Number      `json:"amount"`
	DateTime  time.Time        `json:"dateTime"`
}

func toTransactionLogResponse(e domain.TransactionLog) TransactionLogResponse {
	return TransactionLogResponse{
		Operation: e.Operation,
		Amount:    json.Number(e.Amount.StringFixed(domain.BalanceScale)),
		DateTime:  e.OccurredAt,
	}
}

type TransactionLogHandler struct {
	service transactions.TransactionLogService
	logger  *zap.Logger
}

func NewTransactionLogHandler(s transactions.TransactionLogService, l *zap.Logger) *TransactionLogHandler {
	return &TransactionLogHandler{service: s, logger: l}
}

func (h *TransactionLogHandler) FindAccountTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	accountID, err := httputil.PathID(r, "accountId")
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}
	pageNumber, pageSize, err := httputil.ParsePageParams(r)
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}

	page, err := h.service.FindAccountTransactions(r.Context(), accountID, pageNumber, pageSize)
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, h.logger, http.StatusOK, httputil.NewPageResponse(page, toTransactionLogResponse))
}

func RegisterRoutes(r chi.Router, s transactions.TransactionLogService, l *zap.Logger) {
	handler := NewTransactionLogHandler(s, l.With(zap.String("component", "TransactionLogHTTPHandler")))

	r.Get("/transactions/{accountId}", handler.FindAccountTransactionsHandler)
}
