package pgsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
)

type PgxFraudAlertRepository struct {
	BaseRepository
}

func newPgxFraudAlertRepository(pool *pgxpool.Pool) portsrepo.FraudAlertRepositoryFacade {
	return &PgxFraudAlertRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FraudAlertRepositoryFacade = (*PgxFraudAlertRepository)(nil)

// SaveAlert inserts an alert unless an equivalent one already exists for the
// same account, kind and trigger. The partial unique index backs the
// ON CONFLICT clause; a suppressed duplicate reports created=false.
func (r *PgxFraudAlertRepository) SaveAlert(ctx context.Context, alert domain.FraudAlert) (bool, error) {
	query := `
		INSERT INTO fraud_alerts (alert_id, account_number, kind, description, severity, trigger_id, resolved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (account_number, kind, trigger_id) WHERE trigger_id <> '' DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query,
		alert.AlertID,
		nullableAccountNumber(alert.AccountNumber),
		string(alert.Kind),
		alert.Description,
		string(alert.Severity),
		alert.TriggerID,
		alert.Resolved,
	)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to save fraud alert", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListAlerts returns alerts newest first, optionally only unresolved ones.
func (r *PgxFraudAlertRepository) ListAlerts(ctx context.Context, onlyUnresolved bool) ([]domain.FraudAlert, error) {
	query := `
		SELECT alert_id, account_number, kind, description, severity, trigger_id, resolved, created_at, updated_at
		FROM fraud_alerts
		WHERE ($1 = FALSE OR resolved = FALSE)
		ORDER BY created_at DESC, alert_id;
	`
	rows, err := r.Pool.Query(ctx, query, onlyUnresolved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query fraud alerts", err)
	}
	defer rows.Close()

	var alerts []domain.FraudAlert
	for rows.Next() {
		var alert domain.FraudAlert
		var account sql.NullString
		var kind, severity string
		err := rows.Scan(
			&alert.AlertID,
			&account,
			&kind,
			&alert.Description,
			&severity,
			&alert.TriggerID,
			&alert.Resolved,
			&alert.CreatedAt,
			&alert.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fraud alert row", err)
		}
		alert.AccountNumber = account.String
		alert.Kind = domain.FlagKind(kind)
		alert.Severity = domain.Severity(severity)
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// SetAlertResolved updates the resolved flag of an alert.
func (r *PgxFraudAlertRepository) SetAlertResolved(ctx context.Context, alertID string, resolved bool, now time.Time) error {
	query := `UPDATE fraud_alerts SET resolved = $2, updated_at = $3 WHERE alert_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, alertID, resolved, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update fraud alert "+alertID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: alert %s", apperrors.ErrNotFound, alertID)
	}
	return nil
}

func nullableAccountNumber(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
