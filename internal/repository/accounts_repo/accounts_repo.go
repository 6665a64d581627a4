package accounts_repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"bankdemo/internal/domain"
)

const accountColumns = `id, name, pin_hash, balance, created_at`

type accountRepository struct{}

func NewAccountRepository() AccountRepository {
	return &accountRepository{}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	account := &domain.Account{}
	var balance string
	if err := row.Scan(&account.ID, &account.Name, &account.PinHash, &balance, &account.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance %q of account %d: %w", balance, account.ID, err)
	}
	account.Balance = parsed
	return account, nil
}

func (r *accountRepository) CreateTx(ctx context.Context, querier domain.Querier, account *domain.Account) error {
	query := `
		INSERT INTO accounts (name, pin_hash, balance)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := querier.QueryRowContext(ctx, query,
		account.Name, account.PinHash, account.Balance.StringFixed(domain.BalanceScale),
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewEntityCreationError("insert into accounts returned no row")
		}
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code.Class() == "23" {
			return domain.NewEntityCreationError(pgErr.Message)
		}
		return fmt.Errorf("failed to create account %q: %w", account.Name, err)
	}
	return nil
}

func (r *accountRepository) GetByIDTx(ctx context.Context, querier domain.Querier, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, querier, query, id)
}

func (r *accountRepository) GetByIDForUpdateTx(ctx context.Context, querier domain.Querier, id int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, querier, query, id)
}

func (r *accountRepository) getOne(ctx context.Context, querier domain.Querier, query string, id int64) (*domain.Account, error) {
	account, err := scanAccount(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewAccountNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return account, nil
}

// LockManyTx takes row locks on every existing account in ids, in ascending
// id order. Missing ids are ignored.
func (r *accountRepository) LockManyTx(ctx context.Context, querier domain.Querier, ids []int64) error {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	query := `SELECT id FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := querier.QueryContext(ctx, query, pq.Array(sorted))
	if err != nil {
		return fmt.Errorf("failed to lock accounts %v: %w", sorted, err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to lock accounts %v: %w", sorted, err)
	}
	return nil
}

func (r *accountRepository) ListPage(ctx context.Context, querier domain.Querier, limit, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id ASC LIMIT $1 OFFSET $2`
	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) Count(ctx context.Context, querier domain.Querier) (int64, error) {
	var total int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return total, nil
}

// UpdateBalanceTx stores an already computed balance.
func (r *accountRepository) UpdateBalanceTx(ctx context.Context, querier domain.Querier, id int64, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1 WHERE id = $2`
	res, err := querier.ExecContext(ctx, query, balance.StringFixed(domain.BalanceScale), id)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %d: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.NewAccountNotFoundError(id)
	}
	return nil
}

func (r *accountRepository) ExistsByID(ctx context.Context, querier domain.Querier, id int64) (bool, error) {
	var exists bool
	err := querier.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account %d: %w", id, err)
	}
	return exists, nil
}
