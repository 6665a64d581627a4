package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bankdemo/internal/domain"
	"bankdemo/internal/infrastructure/database"
	"bankdemo/internal/repository/accounts_repo"
	"bankdemo/internal/repository/inbox_repo"
	"bankdemo/internal/repository/outbox_repo"
	"bankdemo/internal/repository/transactions_repo"
	"bankdemo/internal/security"
	"bankdemo/internal/util"
)

type AccountService interface {
	FindOne(ctx context.Context, id int64) (*domain.Account, error)
	FindAll(ctx context.Context, pageNumber, pageSize int) (*domain.Page[domain.Account], error)
	Create(ctx context.Context, name, rawPin string) (*domain.Account, error)
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, rawPin string) (*domain.Account, error)
	Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal, rawPin string) (*domain.Account, error)
	ProcessIncomingDepositEvent(ctx context.Context, msg *domain.InboxMessage, event domain.DepositRequestedEvent) error
}

type accountService struct {
	db          domain.Querier
	tx          database.Transactor
	accountRepo accounts_repo.AccountRepository
	logRepo     transactions_repo.TransactionLogRepository
	inboxRepo   inbox_repo.InboxRepository
	outboxRepo  outbox_repo.OutboxRepository
	pins        security.PinEncoder
	eventsTopic string
	logger      *zap.Logger
}

// NewAccountService wires the service. Account-operation events are written
// to the outbox only when eventsTopic is not empty.
func NewAccountService(
	db domain.Querier,
	tx database.Transactor,
	accountRepo accounts_repo.AccountRepository,
	logRepo transactions_repo.TransactionLogRepository,
	inboxRepo inbox_repo.InboxRepository,
	outboxRepo outbox_repo.OutboxRepository,
	pins security.PinEncoder,
	eventsTopic string,
	logger *zap.Logger,
) AccountService {
	return &accountService{
		db:          db,
		tx:          tx,
		accountRepo: accountRepo,
		logRepo:     logRepo,
		inboxRepo:   inboxRepo,
		outboxRepo:  outboxRepo,
		pins:        pins,
		eventsTopic: eventsTopic,
		logger:      logger,
	}
}

func (s *accountService) FindOne(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accountRepo.GetByIDTx(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) FindAll(ctx context.Context, pageNumber, pageSize int) (*domain.Page[domain.Account], error) {
	if err := domain.ValidatePageRequest(pageNumber, pageSize); err != nil {
		return nil, err
	}

	total, err := s.accountRepo.Count(ctx, s.db)
	if err != nil {
		return nil, err
	}
	content, err := s.accountRepo.ListPage(ctx, s.db, pageSize, domain.Offset(pageNumber, pageSize))
	if err != nil {
		return nil, err
	}
	return domain.NewPage(content, pageNumber, pageSize, total), nil
}

func (s *accountService) Create(ctx context.Context, name, rawPin string) (*domain.Account, error) {
	pinHash, err := s.pins.Encode(rawPin)
	if err != nil {
		return nil, err
	}

	account := domain.NewAccount(name, pinHash)
	err = s.tx.WithinTx(ctx, func(ctx context.Context, q domain.Querier) error {
		return s.accountRepo.CreateTx(ctx, q, account)
	})
	if err != nil {
		s.logger.Error("Failed to create account", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Account created", zap.Int64("account_id", account.ID), zap.String("name", account.Name))
	return account, nil
}

func (s *accountService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, error) {
	if err := domain.ValidateAmount(accountID, amount); err != nil {
		return nil, err
	}

	var account *domain.Account
	err := s.tx.WithinTx(ctx, func(ctx context.Context, q domain.Querier) error {
		var txErr error
		account, txErr = s.depositTx(ctx, q, accountID, amount)
		return txErr
	})
	if err != nil {
		s.logOperationFailure("deposit", accountID, amount, err)
		return nil, err
	}

	s.logger.Info("Deposit completed",
		zap.Int64("account_id", accountID),
		zap.Stringer("amount", amount),
		zap.Stringer("balance", account.Balance))
	return account, nil
}

func (s *accountService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, rawPin string) (*domain.Account, error) {
	if err := domain.ValidateAmount(accountID, amount); err != nil {
		return nil, err
	}

	var account *domain.Account
	err := s.tx.WithinTx(ctx, func(ctx context.Context, q domain.Querier) error {
		var txErr error
		account, txErr = s.withdrawTx(ctx, q, accountID, amount, rawPin)
		return txErr
	})
	if err != nil {
		s.logOperationFailure("withdraw", accountID, amount, err)
		return nil, err
	}

	s.logger.Info("Withdrawal completed",
		zap.Int64("account_id", accountID),
		zap.Stringer("amount", amount),
		zap.Stringer("balance", account.Balance))
	return account, nil
}

// Transfer withdraws from fromID and deposits into toID in one transaction and
// returns the source account.
func (s *accountService) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal, rawPin string) (*domain.Account, error) {
	if fromID == toID {
		return nil, domain.NewIDMatchingError(fromID)
	}
	if err := domain.ValidateAmount(fromID, amount); err != nil {
		return nil, err
	}

	var source *domain.Account
	err := s.tx.WithinTx(ctx, func(ctx context.Context, q domain.Querier) error {
		if err := s.accountRepo.LockManyTx(ctx, q, []int64{fromID, toID}); err != nil {
			return err
		}
		var err error
		source, err = s.withdrawTx(ctx, q, fromID, amount, rawPin)
		if err != nil {
			return err
		}
		_, err = s.depositTx(ctx, q, toID, amount)
		return err
	})
	if err != nil {
		s.logger.Warn("Transfer rejected",
			zap.Int64("from_account_id", fromID),
			zap.Int64("to_account_id", toID),
			zap.Stringer("amount", amount),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Transfer completed",
		zap.Int64("from_account_id", fromID),
		zap.Int64("to_account_id", toID),
		zap.Stringer("amount", amount))
	return source, nil
}

// ProcessIncomingDepositEvent credits a deposit received from Kafka exactly
// once per event id. Business rejections are recorded as FAILED and not
// returned, so the message is not redelivered forever.
func (s *accountService) ProcessIncomingDepositEvent(ctx context.Context, msg *domain.InboxMessage, event domain.DepositRequestedEvent) error {
	msg.Status = domain.InboxStatusNew
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, q domain.Querier) error {
		if err := s.inboxRepo.CreateMessageTx(ctx, q, msg); err != nil {
			return err
		}
		if err := domain.ValidateAmount(event.AccountID, event.Amount); err != nil {
			return err
		}
		if _, err := s.depositTx(ctx, q, event.AccountID, event.Amount); err != nil {
			return err
		}
		return s.inboxRepo.UpdateStatusTx(ctx, q, msg.ID, domain.InboxStatusProcessed)
	})

	switch {
	case err == nil:
		s.logger.Info("Deposit request processed", zap.String("event_id", msg.ID), zap.Int64("account_id", event.AccountID))
		return nil
	case errors.Is(err, domain.ErrMessageAlreadyProcessed):
		s.logger.Info("Deposit request already processed", zap.String("event_id", msg.ID))
		return nil
	case isBusinessError(err):
		s.logger.Warn("Deposit request rejected", zap.String("event_id", msg.ID), zap.Error(err))
		msg.Status = domain.InboxStatusFailed
		failErr := s.tx.WithinTx(ctx, func(ctx context.Context, q domain.Querier) error {
			return s.inboxRepo.CreateMessageTx(ctx, q, msg)
		})
		if failErr != nil && !errors.Is(failErr, domain.ErrMessageAlreadyProcessed) {
			return fmt.Errorf("failed to record rejected deposit request %s: %w", msg.ID, failErr)
		}
		return nil
	default:
		return fmt.Errorf("failed to process deposit request %s: %w", msg.ID, err)
	}
}

func (s *accountService) depositTx(ctx context.Context, q domain.Querier, accountID int64, amount decimal.Decimal) (*domain.Account, error) {
	account, err := s.accountRepo.GetByIDForUpdateTx(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.Credit(amount); err != nil {
		return nil, err
	}
	if err := s.applyTx(ctx, q, account, domain.OperationDeposit, amount); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) withdrawTx(ctx context.Context, q domain.Querier, accountID int64, amount decimal.Decimal, rawPin string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByIDForUpdateTx(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.pins.Verify(rawPin, account.PinHash, account.ID); err != nil {
		return nil, err
	}
	if err := account.Debit(amount); err != nil {
		return nil, err
	}
	if err := s.applyTx(ctx, q, account, domain.OperationWithdraw, amount); err != nil {
		return nil, err
	}
	return account, nil
}

// applyTx persists the new balance and appends the matching log entry and event.
func (s *accountService) applyTx(ctx context.Context, q domain.Querier, account *domain.Account, op domain.Operation, amount decimal.Decimal) error {
	if err := s.accountRepo.UpdateBalanceTx(ctx, q, account.ID, account.Balance); err != nil {
		return err
	}
	entry := domain.NewTransactionLog(account.ID, op, amount)
	if err := s.logRepo.CreateTx(ctx, q, entry); err != nil {
		return err
	}
	return s.recordEventTx(ctx, q, account, entry)
}

func (s *accountService) recordEventTx(ctx context.Context, q domain.Querier, account *domain.Account, entry *domain.TransactionLog) error {
	if s.eventsTopic == "" {
		return nil
	}

	payload, err := json.Marshal(domain.AccountOperationEvent{
		TransactionID: entry.ID,
		AccountID:     account.ID,
		Operation:     entry.Operation,
		Amount:        entry.Amount,
		Balance:       account.Balance,
		OccurredAt:    entry.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal account operation event: %w", err)
	}

	key := strconv.FormatInt(account.ID, 10)
	msg := &domain.OutboxMessage{
		ID:            util.GenerateUUID(),
		AggregateType: domain.AggregateTypeAccount,
		AggregateID:   key,
		MessageType:   domain.MessageTypeFor(entry.Operation),
		Topic:         s.eventsTopic,
		Key:           key,
		Payload:       payload,
		Status:        domain.OutboxStatusPending,
		CreatedAt:     time.Now(),
	}
	return s.outboxRepo.CreateMessageTx(ctx, q, msg)
}

func (s *accountService) logOperationFailure(op string, accountID int64, amount decimal.Decimal, err error) {
	fields := []zap.Field{
		zap.String("operation", op),
		zap.Int64("account_id", accountID),
		zap.Stringer("amount", amount),
		zap.Error(err),
	}
	if isBusinessError(err) {
		s.logger.Warn("Account operation rejected", fields...)
		return
	}
	s.logger.Error("Account operation failed", fields...)
}

func isBusinessError(err error) bool {
	var opErr *domain.OperationError
	return errors.As(err, &opErr)
}
