package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/middleware"
)

// ledgerService applies balance mutations against the ledger store. Every
// mutation is one atomic unit: balance deltas and their paired transaction
// rows commit together or not at all.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	fraudSvc   portssvc.FraudSvcFacade
}

// NewLedgerService creates a new ledger service. fraudSvc may not be nil: a
// fraud check must see every transaction that triggered it.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, fraudSvc portssvc.FraudSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		fraudSvc:   fraudSvc,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, amount.String())
	}
	return nil
}

// Deposit credits the main balance and appends one deposit transaction.
func (s *ledgerService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, details string) (*domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if details == "" {
		details = "Deposit"
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountNumber: accountNumber,
		Type:          domain.Deposit,
		Amount:        amount,
		Details:       details,
	}
	changes := map[string]domain.BalanceChange{
		accountNumber: {Main: amount},
	}

	committed, err := s.ledgerRepo.ApplyLedgerChange(ctx, changes, []domain.Transaction{txn})
	if err != nil {
		return nil, err
	}

	s.runFraudCheck(ctx, committed)
	return &committed[0], nil
}

// WithdrawToWallet debits the main balance and credits the wallet balance by
// the same amount, appending one withdraw_to_wallet transaction.
func (s *ledgerService) WithdrawToWallet(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountNumber: accountNumber,
		Type:          domain.WithdrawToWallet,
		Amount:        amount,
		Details:       "Withdraw to wallet",
	}
	changes := map[string]domain.BalanceChange{
		accountNumber: {Main: amount.Neg(), Wallet: amount},
	}

	committed, err := s.ledgerRepo.ApplyLedgerChange(ctx, changes, []domain.Transaction{txn})
	if err != nil {
		return nil, err
	}

	s.runFraudCheck(ctx, committed)
	return &committed[0], nil
}

// Transfer debits the sender's main balance and credits the receiver's by the
// same amount, appending a transfer_out and a transfer_in transaction. Both
// sides commit together or not at all.
func (s *ledgerService) Transfer(ctx context.Context, fromAccount, toAccount string, amount decimal.Decimal, details string) (*domain.Transaction, *domain.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, err
	}
	if fromAccount == toAccount {
		return nil, nil, fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
	}

	outDetails := details
	if outDetails == "" {
		outDetails = fmt.Sprintf("To %s", toAccount)
	}

	outTxn := domain.Transaction{
		TransactionID:       uuid.NewString(),
		AccountNumber:       fromAccount,
		Type:                domain.TransferOut,
		Amount:              amount,
		Details:             outDetails,
		CounterpartyAccount: toAccount,
	}
	inTxn := domain.Transaction{
		TransactionID:       uuid.NewString(),
		AccountNumber:       toAccount,
		Type:                domain.TransferIn,
		Amount:              amount,
		Details:             fmt.Sprintf("From %s", fromAccount),
		CounterpartyAccount: fromAccount,
	}
	changes := map[string]domain.BalanceChange{
		fromAccount: {Main: amount.Neg()},
		toAccount:   {Main: amount},
	}

	committed, err := s.ledgerRepo.ApplyLedgerChange(ctx, changes, []domain.Transaction{outTxn, inTxn})
	if err != nil {
		return nil, nil, err
	}

	s.runFraudCheck(ctx, committed)
	return &committed[0], &committed[1], nil
}

// History lists an account's transactions, newest first, within an optional
// date range.
func (s *ledgerService) History(ctx context.Context, accountNumber string, from, to *time.Time) ([]domain.Transaction, error) {
	return s.ledgerRepo.ListTransactionsFiltered(ctx, accountNumber, from, to)
}

// runFraudCheck hands freshly committed transactions to the detector before the
// operation returns. The ledger mutation is already durable at this point, so a
// failure to persist alerts is logged rather than propagated.
func (s *ledgerService) runFraudCheck(ctx context.Context, committed []domain.Transaction) {
	logger := middleware.GetLoggerFromCtx(ctx)

	flags, err := s.fraudSvc.CheckTransactions(ctx, committed)
	if err != nil {
		logger.Error("Fraud check failed after ledger commit", slog.String("error", err.Error()))
		return
	}
	if len(flags) > 0 {
		logger.Warn("Fraud flags raised", slog.Int("count", len(flags)))
	}
}
