package repositories

import (
	"context"
	"time"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
)

// LoginAttemptRepositoryFacade persists and queries the append-only login
// attempt log.
type LoginAttemptRepositoryFacade interface {
	// SaveLoginAttempt appends one attempt, stamping it at commit time, and
	// returns the stored record.
	SaveLoginAttempt(ctx context.Context, attempt domain.LoginAttempt) (*domain.LoginAttempt, error)

	// CountFailuresSince counts failed attempts for an identifier created at or
	// after the given instant.
	CountFailuresSince(ctx context.Context, identifier string, since time.Time) (int, error)

	// ListAttemptsSince retrieves all attempts for an identifier created at or
	// after the given instant, newest first.
	ListAttemptsSince(ctx context.Context, identifier string, since time.Time) ([]domain.LoginAttempt, error)
}
