package accounts_repo

import (
	"context"

	"github.com/shopspring/decimal"

	"bankdemo/internal/domain"
)

type AccountRepository interface {
	CreateTx(ctx context.Context, querier domain.Querier, account *domain.Account) error
	GetByIDTx(ctx context.Context, querier domain.Querier, id int64) (*domain.Account, error)
	GetByIDForUpdateTx(ctx context.Context, querier domain.Querier, id int64) (*domain.Account, error)
	LockManyTx(ctx context.Context, querier domain.Querier, ids []int64) error
	ListPage(ctx context.Context, querier domain.Querier, limit, offset int) ([]domain.Account, error)
	Count(ctx context.Context, querier domain.Querier) (int64, error)
	UpdateBalanceTx(ctx context.Context, querier domain.Querier, id int64, balance decimal.Decimal) error
	ExistsByID(ctx context.Context, querier domain.Querier, id int64) (bool, error)
}
