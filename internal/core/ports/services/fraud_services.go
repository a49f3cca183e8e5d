package services

import (
	"context"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
)

// FraudSvcFacade exposes anomaly scoring and alert review. Scoring never raises
// business errors; an empty flag slice is a valid, common result.
type FraudSvcFacade interface {
	// ScoreAccount re-scans an account's transaction history on demand and
	// returns the flags without persisting anything.
	ScoreAccount(ctx context.Context, accountNumber string) ([]domain.FraudFlag, error)

	// ScoreIdentifierLogins re-scans the recent login attempts of an identifier
	// on demand and returns the flags without persisting anything.
	ScoreIdentifierLogins(ctx context.Context, identifier string) ([]domain.FraudFlag, error)

	// CheckTransactions evaluates freshly committed transactions, persists any
	// flags as alerts, and returns them. Called by the ledger service after each
	// successful mutation.
	CheckTransactions(ctx context.Context, transactions []domain.Transaction) ([]domain.FraudFlag, error)

	// CheckLoginAttempt evaluates a freshly recorded login attempt, persists any
	// flags as alerts, and returns them.
	CheckLoginAttempt(ctx context.Context, attempt domain.LoginAttempt) ([]domain.FraudFlag, error)

	// ListAlerts retrieves persisted alerts for operator review.
	ListAlerts(ctx context.Context, onlyUnresolved bool) ([]domain.FraudAlert, error)

	// ResolveAlert updates the resolved flag of an alert.
	ResolveAlert(ctx context.Context, alertID string, resolved bool) error
}
