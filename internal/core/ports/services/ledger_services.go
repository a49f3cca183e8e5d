package services

import (
	"context"
	"time"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade exposes the balance-mutating operations of the core. Every
// successful mutation appends its paired transaction record(s) and runs the
// fraud check on them before returning.
type LedgerSvcFacade interface {
	// Deposit credits the main balance. Amount must be positive.
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, details string) (*domain.Transaction, error)

	// WithdrawToWallet moves amount from the main balance into the wallet.
	WithdrawToWallet(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Transaction, error)

	// Transfer moves amount between the main balances of two accounts and
	// returns the sender-side and receiver-side transaction records.
	Transfer(ctx context.Context, fromAccount, toAccount string, amount decimal.Decimal, details string) (*domain.Transaction, *domain.Transaction, error)

	// History lists an account's transactions, newest first, within an optional
	// date range.
	History(ctx context.Context, accountNumber string, from, to *time.Time) ([]domain.Transaction, error)
}
