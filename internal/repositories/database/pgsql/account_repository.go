package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
)

// PgxAccountRepository implements account persistence on PostgreSQL.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_number, name, phone, pin_hash, main_balance, wallet_balance, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountNumber,
		&acc.Name,
		&acc.Phone,
		&acc.PINHash,
		&acc.MainBalance,
		&acc.WalletBalance,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account row: %w", err)
	}
	return &acc, nil
}

// SaveAccount persists a new account, stamping it at commit time.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_number, name, phone, pin_hash, main_balance, wallet_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW());
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountNumber,
		account.Name,
		account.Phone,
		account.PINHash,
		account.MainBalance,
		account.WalletBalance,
	)
	if err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: account number or phone already taken", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert account "+account.AccountNumber, err)
	}
	return nil
}

// FindAccountByNumber retrieves an account by its account number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`
	return scanAccount(r.Pool.QueryRow(ctx, query, accountNumber))
}

// FindAccountByPhone retrieves an account by the customer's phone number.
func (r *PgxAccountRepository) FindAccountByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE phone = $1;`
	return scanAccount(r.Pool.QueryRow(ctx, query, phone))
}

// ListAccounts retrieves all accounts, newest first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, account_number;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}

// SummarizeBalances returns bank-wide account count and balance totals.
func (r *PgxAccountRepository) SummarizeBalances(ctx context.Context) (*domain.BankSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(main_balance), 0), COALESCE(SUM(wallet_balance), 0)
		FROM accounts;
	`
	var summary domain.BankSummary
	err := r.Pool.QueryRow(ctx, query).Scan(
		&summary.TotalAccounts,
		&summary.TotalMainBalance,
		&summary.TotalWalletBalance,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to summarize balances", err)
	}
	return &summary, nil
}

// DeleteAccountCascade removes an account and its transaction history within
// one database transaction.
func (r *PgxAccountRepository) DeleteAccountCascade(ctx context.Context, accountNumber string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE account_number = $1;`, accountNumber); err != nil {
		return apperrors.NewAppError(500, "failed to delete transactions for account "+accountNumber, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE account_number = $1;`, accountNumber)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete account "+accountNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
	}

	return r.Commit(ctx, tx)
}
