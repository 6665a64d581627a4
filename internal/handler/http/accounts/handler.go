package accounts_http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"bankdemo/internal/app/accounts"
	"bankdemo/internal/httputil"
)

type AccountHandler struct {
	service accounts.AccountService
	logger  *zap.Logger
}

func NewAccountHandler(s accounts.AccountService, l *zap.Logger) *AccountHandler {
	return &AccountHandler{service: s, logger: l}
}

type validator interface {
	Validate() error
}

// decode reads the JSON body into req and validates it. It answers 400 itself
// and returns false when the request is unusable.
func (h *AccountHandler) decode(w http.ResponseWriter, r *http.Request, req validator) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.logger.Info("Invalid request body", zap.String("path", r.URL.Path), zap.Error(err))
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *AccountHandler) FindAllHandler(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize, err := httputil.ParsePageParams(r)
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}

	page, err := h.service.FindAll(r.Context(), pageNumber, pageSize)
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, h.logger, http.StatusOK, httputil.NewPageResponse(page, toAccountSummary))
}

func (h *AccountHandler) FindOneHandler(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}

	account, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, h.logger, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.service.Create(r.Context(), req.Name, req.Pin)
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, h.logger, http.StatusCreated, toAccountResponse(account))
}

func (h *AccountHandler) DepositHandler(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.service.Deposit(r.Context(), req.ToAccountID, req.Amount)
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, h.logger, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	var req WithdrawRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.service.Withdraw(r.Context(), req.FromAccountID, req.Amount, req.Pin)
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, h.logger, http.StatusOK, toAccountResponse(account))
}

func (h *AccountHandler) TransferHandler(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if !h.decode(w, r, &req) {
		return
	}

	account, err := h.service.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount, req.Pin)
	if err != nil {
		httputil.WriteServiceError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, h.logger, http.StatusOK, toAccountResponse(account))
}
