package transactions_repo

import (
	"context"

	"bankdemo/internal/domain"
)

type TransactionLogRepository interface {
	CreateTx(ctx context.Context, querier domain.Querier, entry *domain.TransactionLog) error
	ListByAccountID(ctx context.Context, querier domain.Querier, accountID int64, limit, offset int) ([]domain.TransactionLog, error)
	CountByAccountID(ctx context.Context, querier domain.Querier, accountID int64) (int64, error)
}
