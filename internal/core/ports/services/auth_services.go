package services

import (
	"context"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
)

// AuthSvcFacade verifies credentials, records every attempt in the login log,
// and issues bearer tokens. The core itself never sees raw credentials beyond
// this boundary; whether a caller is the operator is decided here from injected
// configuration, not hardcoded in the detector.
type AuthSvcFacade interface {
	// LoginCustomer verifies a phone/PIN pair. The attempt is recorded and
	// brute-force-checked whether or not it succeeds. On success a token whose
	// subject is the account number is returned.
	LoginCustomer(ctx context.Context, phone, pin string) (token string, account *domain.Account, err error)

	// LoginOperator verifies the configured operator credential. The attempt is
	// recorded and brute-force-checked with elevated severity.
	LoginOperator(ctx context.Context, username, password string) (token string, err error)

	// RecordLoginAttempt appends one attempt to the login log and runs the
	// brute-force check on it. Returns the stored record.
	RecordLoginAttempt(ctx context.Context, identifier string, isAdmin, success bool) (*domain.LoginAttempt, error)
}
