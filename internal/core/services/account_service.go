package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/dto"
	"github.com/ebanklabs/ebank_backend/internal/middleware"
	"github.com/ebanklabs/ebank_backend/internal/utils"
)

// maxNumberAttempts bounds the account-number collision retry loop.
const maxNumberAttempts = 10

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens a new account with zero balances and a collision-checked
// random account number.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	pinHash, err := utils.HashPIN(req.PIN)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to hash PIN", err)
	}

	accountNumber, err := s.uniqueAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	account := domain.Account{
		AccountNumber: accountNumber,
		Name:          req.Name,
		Phone:         req.Phone,
		PINHash:       pinHash,
		MainBalance:   decimal.Zero,
		WalletBalance: decimal.Zero,
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: phone %s is already registered", apperrors.ErrDuplicate, req.Phone)
		}
		return nil, err
	}

	logger.Info("Account created", slog.String("account_number", accountNumber))

	created, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetAccount retrieves an account by number.
func (s *accountService) GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByNumber(ctx, accountNumber)
}

// ListAccounts retrieves all accounts, newest first.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}

// DeleteAccount removes an account together with its transaction history.
func (s *accountService) DeleteAccount(ctx context.Context, accountNumber string) error {
	if _, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber); err != nil {
		return err
	}
	if err := s.accountRepo.DeleteAccountCascade(ctx, accountNumber); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Account deleted", slog.String("account_number", accountNumber))
	return nil
}

// uniqueAccountNumber draws random account numbers until one is free.
func (s *accountService) uniqueAccountNumber(ctx context.Context) (string, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		candidate, err := utils.GenerateAccountNumber()
		if err != nil {
			return "", apperrors.NewAppError(500, "failed to generate account number", err)
		}
		_, err = s.accountRepo.FindAccountByNumber(ctx, candidate)
		if errors.Is(err, apperrors.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", apperrors.NewAppError(500, "could not find a free account number", nil)
}
