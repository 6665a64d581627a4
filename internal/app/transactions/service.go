package transactions

import (
	"context"

	"go.uber.org/zap"

	"bankdemo/internal/domain"
	"bankdemo/internal/repository/accounts_repo"
	"bankdemo/internal/repository/transactions_repo"
)

type TransactionLogService interface {
	FindAccountTransactions(ctx context.Context, accountID int64, pageNumber, pageSize int) (*domain.Page[domain.TransactionLog], error)
}

type transactionLogService struct {
	db          domain.Querier
	accountRepo accounts_repo.AccountRepository
	logRepo     transactions_repo.TransactionLogRepository
	logger      *zap.Logger
}

func NewTransactionLogService(
	db domain.Querier,
	accountRepo accounts_repo.AccountRepository,
	logRepo transactions_repo.TransactionLogRepository,
	logger *zap.Logger,
) TransactionLogService {
	return &transactionLogService{
		db:          db,
		accountRepo: accountRepo,
		logRepo:     logRepo,
		logger:      logger,
	}
}

// FindAccountTransactions lists log entries of one account in insertion order.
func (s *transactionLogService) FindAccountTransactions(ctx context.Context, accountID int64, pageNumber, pageSize int) (*domain.Page[domain.TransactionLog], error) {
	if err := domain.ValidatePageRequest(pageNumber, pageSize); err != nil {
		return nil, err
	}

	exists, err := s.accountRepo.ExistsByID(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.logger.Debug("Transaction log requested for unknown account", zap.Int64("account_id", accountID))
		return nil, domain.NewAccountNotFoundError(accountID)
	}

	total, err := s.logRepo.CountByAccountID(ctx, s.db, accountID)
	if err != nil {
		return nil, err
	}
	entries, err := s.logRepo.ListByAccountID(ctx, s.db, accountID, pageSize, domain.Offset(pageNumber, pageSize))
	if err != nil {
		return nil, err
	}
	return domain.NewPage(entries, pageNumber, pageSize, total), nil
}
