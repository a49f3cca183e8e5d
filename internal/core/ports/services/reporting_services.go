package services

import (
	"context"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
)

// ReportingSvcFacade exposes bank-wide aggregates and the ledger consistency
// check to the operator surface.
type ReportingSvcFacade interface {
	// Summary returns account count and balance totals.
	Summary(ctx context.Context) (*domain.BankSummary, error)

	// Reconcile replays the transaction log against stored balances. When any
	// account fails to reconcile the report lists it and the error is
	// apperrors.ErrInconsistent.
	Reconcile(ctx context.Context) (*domain.ReconciliationReport, error)
}
