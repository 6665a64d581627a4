package http_handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"bankdemo/internal/domain"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type stubAccounts struct{}

func (stubAccounts) FindOne(_ context.Context, id int64) (*domain.Account, error) {
	return &domain.Account{ID: id, Name: "first", Balance: decimal.NewFromInt(5)}, nil
}
func (stubAccounts) FindAll(context.Context, int, int) (*domain.Page[domain.Account], error) {
	return domain.NewPage[domain.Account](nil, 0, 20, 0), nil
}
func (stubAccounts) Create(context.Context, string, string) (*domain.Account, error) {
	return nil, errors.New("pool exhausted")
}
func (stubAccounts) Deposit(context.Context, int64, decimal.Decimal) (*domain.Account, error) {
	return nil, nil
}
func (stubAccounts) Withdraw(context.Context, int64, decimal.Decimal, string) (*domain.Account, error) {
	return nil, nil
}
func (stubAccounts) Transfer(context.Context, int64, int64, decimal.Decimal, string) (*domain.Account, error) {
	return nil, nil
}
func (stubAccounts) ProcessIncomingDepositEvent(context.Context, *domain.InboxMessage, domain.DepositRequestedEvent) error {
	return nil
}

type stubLogs struct{}

func (stubLogs) FindAccountTransactions(context.Context, int64, int, int) (*domain.Page[domain.TransactionLog], error) {
	return domain.NewPage[domain.TransactionLog](nil, 0, 20, 0), nil
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_MountsUnderAPIPrefix(t *testing.T) {
	h := NewRouter(RouterConfig{AllowedOrigins: []string{"*"}}, stubAccounts{}, stubLogs{}, stubPinger{}, zap.NewNop())

	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/transactions/1", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, httptest.NewRequest(http.MethodGet, "/accounts/1", nil)).Code)
}

func TestNewRouter_Health(t *testing.T) {
	healthy := NewRouter(RouterConfig{}, stubAccounts{}, stubLogs{}, stubPinger{}, zap.NewNop())
	assert.Equal(t, http.StatusOK, serve(healthy, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)

	broken := NewRouter(RouterConfig{}, stubAccounts{}, stubLogs{}, stubPinger{err: errors.New("down")}, zap.NewNop())
	assert.Equal(t, http.StatusServiceUnavailable, serve(broken, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestNewRouter_InternalErrorsAreGeneric(t *testing.T) {
	h := NewRouter(RouterConfig{}, stubAccounts{}, stubLogs{}, stubPinger{}, zap.NewNop())
	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(`{"name":"first","pin":"1111"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error","code":500}`, rec.Body.String())
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	h := NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}}, stubAccounts{}, stubLogs{}, stubPinger{}, zap.NewNop())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/accounts/deposit", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)

	rec := serve(h, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
