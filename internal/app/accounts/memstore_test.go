package accounts

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"bankdemo/internal/domain"
)

// memStore keeps accounts, log entries, outbox and inbox rows in memory and
// restores a snapshot when a transaction function fails.
type memStore struct {
	accounts      map[int64]domain.Account
	logs          []domain.TransactionLog
	outbox        []domain.OutboxMessage
	inbox         map[string]domain.InboxMessage
	nextAccountID int64
	nextLogID     int64

	failLogAppendFor map[int64]error
	commits          int
	rollbacks        int
}

func newMemStore() *memStore {
	return &memStore{
		accounts:         map[int64]domain.Account{},
		inbox:            map[string]domain.InboxMessage{},
		failLogAppendFor: map[int64]error{},
	}
}

type memSnapshot struct {
	accounts      map[int64]domain.Account
	logs          []domain.TransactionLog
	outbox        []domain.OutboxMessage
	inbox         map[string]domain.InboxMessage
	nextAccountID int64
	nextLogID     int64
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		accounts:      maps.Clone(s.accounts),
		logs:          slices.Clone(s.logs),
		outbox:        slices.Clone(s.outbox),
		inbox:         maps.Clone(s.inbox),
		nextAccountID: s.nextAccountID,
		nextLogID:     s.nextLogID,
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.accounts = snap.accounts
	s.logs = snap.logs
	s.outbox = snap.outbox
	s.inbox = snap.inbox
	s.nextAccountID = snap.nextAccountID
	s.nextLogID = snap.nextLogID
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, q domain.Querier) error) error {
	snap := s.snapshot()
	if err := fn(ctx, nil); err != nil {
		s.restore(snap)
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

func (s *memStore) logsFor(accountID int64) []domain.TransactionLog {
	var out []domain.TransactionLog
	for _, l := range s.logs {
		if l.AccountID == accountID {
			out = append(out, l)
		}
	}
	return out
}

func (s *memStore) balance(accountID int64) string {
	return s.accounts[accountID].Balance.StringFixed(domain.BalanceScale)
}

type memAccounts struct{ s *memStore }

func (r memAccounts) CreateTx(_ context.Context, _ domain.Querier, account *domain.Account) error {
	r.s.nextAccountID++
	account.ID = r.s.nextAccountID
	account.CreatedAt = time.Now()
	r.s.accounts[account.ID] = *account
	return nil
}

func (r memAccounts) GetByIDTx(_ context.Context, _ domain.Querier, id int64) (*domain.Account, error) {
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.NewAccountNotFoundError(id)
	}
	return &a, nil
}

func (r memAccounts) GetByIDForUpdateTx(ctx context.Context, q domain.Querier, id int64) (*domain.Account, error) {
	return r.GetByIDTx(ctx, q, id)
}

func (r memAccounts) LockManyTx(context.Context, domain.Querier, []int64) error {
	return nil
}

func (r memAccounts) ListPage(_ context.Context, _ domain.Querier, limit, offset int) ([]domain.Account, error) {
	ids := slices.Sorted(maps.Keys(r.s.accounts))
	out := []domain.Account{}
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, r.s.accounts[ids[i]])
	}
	return out, nil
}

func (r memAccounts) Count(context.Context, domain.Querier) (int64, error) {
	return int64(len(r.s.accounts)), nil
}

func (r memAccounts) UpdateBalanceTx(_ context.Context, _ domain.Querier, id int64, balance decimal.Decimal) error {
	a, ok := r.s.accounts[id]
	if !ok {
		return domain.NewAccountNotFoundError(id)
	}
	if balance.IsNegative() {
		return fmt.Errorf("balance check violated for account %d", id)
	}
	a.Balance = balance
	r.s.accounts[id] = a
	return nil
}

func (r memAccounts) ExistsByID(_ context.Context, _ domain.Querier, id int64) (bool, error) {
	_, ok := r.s.accounts[id]
	return ok, nil
}

type memLogs struct{ s *memStore }

func (r memLogs) CreateTx(_ context.Context, _ domain.Querier, entry *domain.TransactionLog) error {
	if err := r.s.failLogAppendFor[entry.AccountID]; err != nil {
		return err
	}
	r.s.nextLogID++
	entry.ID = r.s.nextLogID
	entry.OccurredAt = time.Now()
	r.s.logs = append(r.s.logs, *entry)
	return nil
}

func (r memLogs) ListByAccountID(_ context.Context, _ domain.Querier, accountID int64, limit, offset int) ([]domain.TransactionLog, error) {
	all := r.s.logsFor(accountID)
	if offset >= len(all) {
		return []domain.TransactionLog{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r memLogs) CountByAccountID(_ context.Context, _ domain.Querier, accountID int64) (int64, error) {
	return int64(len(r.s.logsFor(accountID))), nil
}

type memOutbox struct{ s *memStore }

func (r memOutbox) CreateMessageTx(_ context.Context, _ domain.Querier, msg *domain.OutboxMessage) error {
	r.s.outbox = append(r.s.outbox, *msg)
	return nil
}

func (r memOutbox) GetPendingMessages(_ context.Context, _ domain.Querier, limit int) ([]domain.OutboxMessage, error) {
	var out []domain.OutboxMessage
	for _, m := range r.s.outbox {
		if m.Status == domain.OutboxStatusPending && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memOutbox) UpdateMessageStatusTx(_ context.Context, _ domain.Querier, id string, status domain.OutboxMessageStatus) error {
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].Status = status
			return nil
		}
	}
	return errors.New("outbox message not found")
}

type memInbox struct{ s *memStore }

func (r memInbox) CreateMessageTx(_ context.Context, _ domain.Querier, msg *domain.InboxMessage) error {
	if _, ok := r.s.inbox[msg.ID]; ok {
		return fmt.Errorf("inbox message with id %s: %w", msg.ID, domain.ErrMessageAlreadyProcessed)
	}
	r.s.inbox[msg.ID] = *msg
	return nil
}

func (r memInbox) UpdateStatusTx(_ context.Context, _ domain.Querier, id string, status domain.InboxMessageStatus) error {
	msg, ok := r.s.inbox[id]
	if !ok {
		return errors.New("inbox message not found")
	}
	msg.Status = status
	r.s.inbox[id] = msg
	return nil
}
