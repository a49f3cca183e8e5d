package repositories

import (
	"context"
	"time"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
)

// LedgerReader defines read operations over the transaction log.
type LedgerReader interface {
	// ListTransactionsByAccount retrieves the full transaction history of an
	// account ordered by creation time ascending.
	ListTransactionsByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error)

	// CountTransactionsSince counts an account's transactions created at or after
	// the given instant.
	CountTransactionsSince(ctx context.Context, accountNumber string, since time.Time) (int, error)

	// ListTransactionsFiltered retrieves an account's transactions within an
	// optional date range, ordered by creation time descending.
	ListTransactionsFiltered(ctx context.Context, accountNumber string, from, to *time.Time) ([]domain.Transaction, error)
}

// LedgerWriter applies balance mutations and their paired ledger entries.
type LedgerWriter interface {
	// ApplyLedgerChange applies the balance deltas and appends the transaction
	// rows as one indivisible unit relative to any concurrent change touching the
	// same accounts. Account locks are acquired in ascending account-number order
	// with a bounded wait; exceeding the wait returns apperrors.ErrConflict.
	//
	// The store re-checks non-negativity under lock and returns
	// apperrors.ErrInsufficientFunds without any effect if a delta would drive a
	// balance negative, and apperrors.ErrNotFound if an account is missing.
	// Returned transactions carry the commit timestamp and are ordered as given.
	ApplyLedgerChange(ctx context.Context, changes map[string]domain.BalanceChange, transactions []domain.Transaction) ([]domain.Transaction, error)
}

// LedgerRepositoryFacade combines ledger read and write interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
