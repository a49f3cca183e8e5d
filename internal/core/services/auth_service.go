package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/middleware"
	"github.com/ebanklabs/ebank_backend/internal/utils"
	"github.com/ebanklabs/ebank_backend/pkg/config"
)

// authService verifies credentials and records every attempt, successful or
// not, in the append-only login log. Whether an identifier is the operator is
// decided purely from injected configuration.
type authService struct {
	accountRepo portsrepo.AccountReader
	attemptRepo portsrepo.LoginAttemptRepositoryFacade
	fraudSvc    portssvc.FraudSvcFacade
	cfg         *config.Config
}

// NewAuthService creates a new auth service.
func NewAuthService(
	accountRepo portsrepo.AccountReader,
	attemptRepo portsrepo.LoginAttemptRepositoryFacade,
	fraudSvc portssvc.FraudSvcFacade,
	cfg *config.Config,
) portssvc.AuthSvcFacade {
	return &authService{
		accountRepo: accountRepo,
		attemptRepo: attemptRepo,
		fraudSvc:    fraudSvc,
		cfg:         cfg,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// LoginCustomer verifies a phone/PIN pair. The attempt is recorded and checked
// for brute force whether or not it succeeds.
func (s *authService) LoginCustomer(ctx context.Context, phone, pin string) (string, *domain.Account, error) {
	account, err := s.accountRepo.FindAccountByPhone(ctx, phone)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return "", nil, err
	}

	success := account != nil && utils.CheckPINHash(pin, account.PINHash)

	if _, err := s.RecordLoginAttempt(ctx, phone, false, success); err != nil {
		return "", nil, err
	}
	if !success {
		return "", nil, apperrors.ErrUnauthorized
	}

	token, err := utils.GenerateJWT(account.AccountNumber, false, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", nil, apperrors.NewAppError(500, "failed to sign token", err)
	}
	return token, account, nil
}

// LoginOperator verifies the configured operator credential. Failed bursts
// against the operator identifier raise high-severity alerts via the recorded
// attempt.
func (s *authService) LoginOperator(ctx context.Context, username, password string) (string, error) {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.OperatorUsername)) == 1
	success := usernameMatch && utils.CheckPINHash(password, s.cfg.OperatorPasswordHash)

	if _, err := s.RecordLoginAttempt(ctx, s.cfg.OperatorUsername, true, success); err != nil {
		return "", err
	}
	if !success {
		return "", apperrors.ErrUnauthorized
	}

	token, err := utils.GenerateJWT(s.cfg.OperatorUsername, true, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to sign token", err)
	}
	return token, nil
}

// RecordLoginAttempt appends one attempt and runs the brute-force check on it.
func (s *authService) RecordLoginAttempt(ctx context.Context, identifier string, isAdmin, success bool) (*domain.LoginAttempt, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stored, err := s.attemptRepo.SaveLoginAttempt(ctx, domain.LoginAttempt{
		AttemptID:  uuid.NewString(),
		Identifier: identifier,
		IsAdmin:    isAdmin,
		Success:    success,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.fraudSvc.CheckLoginAttempt(ctx, *stored); err != nil {
		// The attempt itself is durable; a detector failure must not block login.
		logger.Error("Login fraud check failed", slog.String("identifier", identifier), slog.String("error", err.Error()))
	}

	return stored, nil
}
