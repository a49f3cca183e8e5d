package repositories

import (
	"context"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByNumber retrieves a specific account by its account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// FindAccountByPhone retrieves an account by the customer's phone number.
	FindAccountByPhone(ctx context.Context, phone string) (*domain.Account, error)

	// ListAccounts retrieves all accounts ordered by creation time, newest first.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// SummarizeBalances returns bank-wide account count and balance totals.
	SummarizeBalances(ctx context.Context) (*domain.BankSummary, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate when the
	// account number or phone is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeleteAccountCascade removes an account together with its transaction
	// history. Accounts are never deleted while their transactions remain.
	DeleteAccountCascade(ctx context.Context, accountNumber string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
