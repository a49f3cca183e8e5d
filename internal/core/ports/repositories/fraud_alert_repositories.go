package repositories

import (
	"context"
	"time"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
)

// FraudAlertRepositoryFacade persists detector flags as durable alerts.
type FraudAlertRepositoryFacade interface {
	// SaveAlert appends an alert. Insertion is idempotent on
	// (account, kind, trigger id): a duplicate is dropped and reported as
	// created=false with no error.
	SaveAlert(ctx context.Context, alert domain.FraudAlert) (created bool, err error)

	// ListAlerts retrieves alerts newest first, optionally only unresolved ones.
	ListAlerts(ctx context.Context, onlyUnresolved bool) ([]domain.FraudAlert, error)

	// SetAlertResolved updates the resolved flag of an alert. Returns
	// apperrors.ErrNotFound for an unknown alert id.
	SetAlertResolved(ctx context.Context, alertID string, resolved bool, now time.Time) error
}
