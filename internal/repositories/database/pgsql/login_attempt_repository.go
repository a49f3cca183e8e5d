package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
)

type PgxLoginAttemptRepository struct {
	BaseRepository
}

func newPgxLoginAttemptRepository(pool *pgxpool.Pool) portsrepo.LoginAttemptRepositoryFacade {
	return &PgxLoginAttemptRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.LoginAttemptRepositoryFacade = (*PgxLoginAttemptRepository)(nil)

// SaveLoginAttempt appends one attempt, stamping it at commit time.
func (r *PgxLoginAttemptRepository) SaveLoginAttempt(ctx context.Context, attempt domain.LoginAttempt) (*domain.LoginAttempt, error) {
	query := `
		INSERT INTO login_attempts (attempt_id, identifier, is_admin, success, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at;
	`
	err := r.Pool.QueryRow(ctx, query,
		attempt.AttemptID,
		attempt.Identifier,
		attempt.IsAdmin,
		attempt.Success,
	).Scan(&attempt.CreatedAt)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save login attempt", err)
	}
	return &attempt, nil
}

func (r *PgxLoginAttemptRepository) CountFailuresSince(ctx context.Context, identifier string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM login_attempts
		WHERE identifier = $1 AND success = FALSE AND created_at >= $2;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, identifier, since).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count failed login attempts", err)
	}
	return count, nil
}

func (r *PgxLoginAttemptRepository) ListAttemptsSince(ctx context.Context, identifier string, since time.Time) ([]domain.LoginAttempt, error) {
	query := `
		SELECT attempt_id, identifier, is_admin, success, created_at
		FROM login_attempts
		WHERE identifier = $1 AND created_at >= $2
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, identifier, since)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query login attempts", err)
	}
	defer rows.Close()

	var attempts []domain.LoginAttempt
	for rows.Next() {
		var attempt domain.LoginAttempt
		err := rows.Scan(
			&attempt.AttemptID,
			&attempt.Identifier,
			&attempt.IsAdmin,
			&attempt.Success,
			&attempt.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan login attempt row", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}
