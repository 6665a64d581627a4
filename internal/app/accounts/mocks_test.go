package accounts

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"bankdemo/internal/domain"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, q domain.Querier, account *domain.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByIDTx(ctx context.Context, q domain.Querier, id int64) (*domain.Account, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByIDForUpdateTx(ctx context.Context, q domain.Querier, id int64) (*domain.Account, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) LockManyTx(ctx context.Context, q domain.Querier, ids []int64) error {
	args := m.Called(ctx, q, ids)
	return args.Error(0)
}

func (m *MockAccountRepository) ListPage(ctx context.Context, q domain.Querier, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, q, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context, q domain.Querier) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalanceTx(ctx context.Context, q domain.Querier, id int64, balance decimal.Decimal) error {
	args := m.Called(ctx, q, id, balance)
	return args.Error(0)
}

func (m *MockAccountRepository) ExistsByID(ctx context.Context, q domain.Querier, id int64) (bool, error) {
	args := m.Called(ctx, q, id)
	return args.Bool(0), args.Error(1)
}

type MockPinEncoder struct {
	mock.Mock
}

func (m *MockPinEncoder) Encode(rawPin string) (string, error) {
	args := m.Called(rawPin)
	return args.String(0), args.Error(1)
}

func (m *MockPinEncoder) Verify(rawPin, storedHash string, accountID int64) error {
	args := m.Called(rawPin, storedHash, accountID)
	return args.Error(0)
}
