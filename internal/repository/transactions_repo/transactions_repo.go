package transactions_repo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bankdemo/internal/domain"
)

type transactionLogRepository struct{}

func NewTransactionLogRepository() TransactionLogRepository {
	return &transactionLogRepository{}
}

func (r *transactionLogRepository) CreateTx(ctx context.Context, querier domain.Querier, entry *domain.TransactionLog) error {
	query := `
		INSERT INTO transaction_logs (operation, amount, account_id)
		VALUES ($1, $2, $3)
		RETURNING id, occurred_at
	`
	err := querier.QueryRowContext(ctx, query,
		string(entry.Operation), entry.Amount.StringFixed(domain.BalanceScale), entry.AccountID,
	).Scan(&entry.ID, &entry.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to append %s log entry for account %d: %w", entry.Operation, entry.AccountID, err)
	}
	return nil
}

func (r *transactionLogRepository) ListByAccountID(ctx context.Context, querier domain.Querier, accountID int64, limit, offset int) ([]domain.TransactionLog, error) {
	query := `
		SELECT id, operation, amount, account_id, occurred_at
		FROM transaction_logs
		WHERE account_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := querier.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries for account %d: %w", accountID, err)
	}
	defer rows.Close()

	entries := make([]domain.TransactionLog, 0, limit)
	for rows.Next() {
		var (
			entry     domain.TransactionLog
			operation string
			amount    string
		)
		if err := rows.Scan(&entry.ID, &operation, &amount, &entry.AccountID, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entry.Operation = domain.Operation(operation)
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse amount %q of log entry %d: %w", amount, entry.ID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log entries: %w", err)
	}
	return entries, nil
}

func (r *transactionLogRepository) CountByAccountID(ctx context.Context, querier domain.Querier, accountID int64) (int64, error) {
	var total int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM transaction_logs WHERE account_id = $1`, accountID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count log entries for account %d: %w", accountID, err)
	}
	return total, nil
}
