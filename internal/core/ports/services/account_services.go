package services

import (
	"context"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	"github.com/ebanklabs/ebank_backend/internal/dto"
)

// AccountSvcFacade exposes account lifecycle operations used by the operator
// surface.
type AccountSvcFacade interface {
	// CreateAccount opens a new account with a collision-checked account number
	// and zero balances.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// GetAccount retrieves an account by number.
	GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccounts retrieves all accounts, newest first.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// DeleteAccount removes an account and, with it, its transaction history.
	DeleteAccount(ctx context.Context, accountNumber string) error
}
