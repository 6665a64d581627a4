package transactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bankdemo/internal/domain"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, q domain.Querier, account *domain.Account) error {
	return m.Called(ctx, q, account).Error(0)
}

func (m *MockAccountRepository) GetByIDTx(ctx context.Context, q domain.Querier, id int64) (*domain.Account, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdateTx(ctx context.Context, q domain.Querier, id int64) (*domain.Account, error) {
	return m.GetByIDTx(ctx, q, id)
}

func (m *MockAccountRepository) LockManyTx(ctx context.Context, q domain.Querier, ids []int64) error {
	return m.Called(ctx, q, ids).Error(0)
}

func (m *MockAccountRepository) ListPage(ctx context.Context, q domain.Querier, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context, q domain.Querier) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalanceTx(ctx context.Context, q domain.Querier, id int64, balance decimal.Decimal) error {
	return m.Called(ctx, q, id, balance).Error(0)
}

func (m *MockAccountRepository) ExistsByID(ctx context.Context, q domain.Querier, id int64) (bool, error) {
	args := m.Called(ctx, q, id)
	return args.Bool(0), args.Error(1)
}

type MockTransactionLogRepository struct {
	mock.Mock
}

func (m *MockTransactionLogRepository) CreateTx(ctx context.Context, q domain.Querier, entry *domain.TransactionLog) error {
	return m.Called(ctx, q, entry).Error(0)
}

func (m *MockTransactionLogRepository) ListByAccountID(ctx context.Context, q domain.Querier, accountID int64, limit, offset int) ([]domain.TransactionLog, error) {
	args := m.Called(ctx, q, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionLog), args.Error(1)
}

func (m *MockTransactionLogRepository) CountByAccountID(ctx context.Context, q domain.Querier, accountID int64) (int64, error) {
	args := m.Called(ctx, q, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func TestFindAccountTransactions(t *testing.T) {
	now := time.Now()
	entries := []domain.TransactionLog{
		{ID: 3, Operation: domain.OperationDeposit, Amount: decimal.NewFromInt(100), AccountID: 1, OccurredAt: now},
		{ID: 4, Operation: domain.OperationWithdraw, Amount: decimal.NewFromInt(30), AccountID: 1, OccurredAt: now},
	}

	tests := []struct {
		name       string
		accountID  int64
		pageNumber int
		pageSize   int
		setup      func(a *MockAccountRepository, l *MockTransactionLogRepository)
		wantErr    error
		wantLen    int
		wantTotal  int64
	}{
		{
			name:       "first page",
			accountID:  1,
			pageNumber: 0,
			pageSize:   2,
			setup: func(a *MockAccountRepository, l *MockTransactionLogRepository) {
				a.On("ExistsByID", mock.Anything, mock.Anything, int64(1)).Return(true, nil)
				l.On("CountByAccountID", mock.Anything, mock.Anything, int64(1)).Return(int64(5), nil)
				l.On("ListByAccountID", mock.Anything, mock.Anything, int64(1), 2, 0).Return(entries, nil)
			},
			wantLen:   2,
			wantTotal: 5,
		},
		{
			name:       "offset is page times size",
			accountID:  1,
			pageNumber: 2,
			pageSize:   2,
			setup: func(a *MockAccountRepository, l *MockTransactionLogRepository) {
				a.On("ExistsByID", mock.Anything, mock.Anything, int64(1)).Return(true, nil)
				l.On("CountByAccountID", mock.Anything, mock.Anything, int64(1)).Return(int64(5), nil)
				l.On("ListByAccountID", mock.Anything, mock.Anything, int64(1), 2, 4).Return(entries[:1], nil)
			},
			wantLen:   1,
			wantTotal: 5,
		},
		{
			name:       "unknown account",
			accountID:  9,
			pageNumber: 0,
			pageSize:   10,
			setup: func(a *MockAccountRepository, l *MockTransactionLogRepository) {
				a.On("ExistsByID", mock.Anything, mock.Anything, int64(9)).Return(false, nil)
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:       "invalid page size",
			accountID:  1,
			pageNumber: 0,
			pageSize:   0,
			setup:      func(a *MockAccountRepository, l *MockTransactionLogRepository) {},
			wantErr:    domain.ErrInvalidPageRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(MockAccountRepository)
			logs := new(MockTransactionLogRepository)
			tt.setup(accounts, logs)
			svc := NewTransactionLogService(nil, accounts, logs, zap.NewNop())

			page, err := svc.FindAccountTransactions(context.Background(), tt.accountID, tt.pageNumber, tt.pageSize)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, page)
			} else {
				require.NoError(t, err)
				assert.Len(t, page.Content, tt.wantLen)
				assert.Equal(t, tt.wantTotal, page.TotalElements)
				assert.Equal(t, tt.pageNumber, page.Number)
				assert.Equal(t, tt.pageSize, page.Size)
			}
			accounts.AssertExpectations(t)
			logs.AssertExpectations(t)
		})
	}
}

func TestFindAccountTransactions_StoreError(t *testing.T) {
	accounts := new(MockAccountRepository)
	logs := new(MockTransactionLogRepository)
	storeErr := errors.New("connection refused")
	accounts.On("ExistsByID", mock.Anything, mock.Anything, int64(1)).Return(true, nil)
	logs.On("CountByAccountID", mock.Anything, mock.Anything, int64(1)).Return(int64(0), storeErr)
	svc := NewTransactionLogService(nil, accounts, logs, zap.NewNop())

	_, err := svc.FindAccountTransactions(context.Background(), 1, 0, 10)

	assert.ErrorIs(t, err, storeErr)
	logs.AssertNotCalled(t, "ListByAccountID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
