package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
)

// PgxLedgerRepository implements the transaction log and the atomic balance
// mutation path on PostgreSQL.
type PgxLedgerRepository struct {
	BaseRepository
	lockTimeout time.Duration
}

func newPgxLedgerRepository(pool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		lockTimeout:    lockTimeout,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// ApplyLedgerChange applies balance deltas and appends the paired transaction
// rows within one database transaction. Account rows are locked with
// SELECT ... FOR UPDATE in ascending account-number order; the session
// lock_timeout bounds the wait and maps to ErrConflict.
func (r *PgxLedgerRepository) ApplyLedgerChange(ctx context.Context, changes map[string]domain.BalanceChange, transactions []domain.Transaction) ([]domain.Transaction, error) {
	accountNumbers := make([]string, 0, len(changes))
	for accountNumber := range changes {
		accountNumbers = append(accountNumbers, accountNumber)
	}
	sort.Strings(accountNumbers)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())); err != nil {
		return nil, apperrors.NewAppError(500, "failed to set lock timeout", err)
	}

	// Lock the affected account rows in canonical order.
	lockQuery := `
		SELECT account_number, main_balance, wallet_balance
		FROM accounts
		WHERE account_number = ANY($1)
		ORDER BY account_number
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, accountNumbers)
	if err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: could not lock accounts within %s", apperrors.ErrConflict, r.lockTimeout)
		}
		return nil, apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}

	type lockedAccount struct {
		main   decimal.Decimal
		wallet decimal.Decimal
	}
	locked := make(map[string]lockedAccount, len(accountNumbers))
	for rows.Next() {
		var accountNumber string
		var acc lockedAccount
		if err := rows.Scan(&accountNumber, &acc.main, &acc.wallet); err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan locked account row", err)
		}
		locked[accountNumber] = acc
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: could not lock accounts within %s", apperrors.ErrConflict, r.lockTimeout)
		}
		return nil, apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}

	// Validate every delta against the locked balances before writing anything.
	now := time.Now().UTC()
	for _, accountNumber := range accountNumbers {
		acc, ok := locked[accountNumber]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
		}
		delta := changes[accountNumber]
		if acc.main.Add(delta.Main).IsNegative() || acc.wallet.Add(delta.Wallet).IsNegative() {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, accountNumber)
		}
	}

	batch := &pgx.Batch{}
	updateQuery := `
		UPDATE accounts
		SET main_balance = main_balance + $2, wallet_balance = wallet_balance + $3, updated_at = $4
		WHERE account_number = $1;
	`
	for _, accountNumber := range accountNumbers {
		delta := changes[accountNumber]
		batch.Queue(updateQuery, accountNumber, delta.Main, delta.Wallet, now)
	}

	insertQuery := `
		INSERT INTO transactions (transaction_id, account_number, type, amount, details, counterparty_account, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	committed := make([]domain.Transaction, len(transactions))
	for i, txn := range transactions {
		txn.CreatedAt = now
		committed[i] = txn
		batch.Queue(insertQuery,
			txn.TransactionID,
			txn.AccountNumber,
			string(txn.Type),
			txn.Amount,
			txn.Details,
			nullableString(txn.CounterpartyAccount),
			txn.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: ledger change lost a concurrency race", apperrors.ErrConflict)
		}
		return nil, apperrors.NewAppError(500, "failed to execute ledger change batch", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return committed, nil
}

// ListTransactionsByAccount retrieves an account's history, oldest first.
func (r *PgxLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_number, type, amount, details, counterparty_account, created_at
		FROM transactions
		WHERE account_number = $1
		ORDER BY created_at ASC, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountNumber)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for account "+accountNumber, err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// CountTransactionsSince counts an account's transactions created at or after
// the given instant.
func (r *PgxLedgerRepository) CountTransactionsSince(ctx context.Context, accountNumber string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE account_number = $1 AND created_at >= $2;`
	var count int
	if err := r.Pool.QueryRow(ctx, query, accountNumber, since).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count transactions for account "+accountNumber, err)
	}
	return count, nil
}

// ListTransactionsFiltered retrieves an account's transactions within an
// optional date range, newest first.
func (r *PgxLedgerRepository) ListTransactionsFiltered(ctx context.Context, accountNumber string, from, to *time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_number, type, amount, details, counterparty_account, created_at
		FROM transactions
		WHERE account_number = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountNumber, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query filtered transactions for account "+accountNumber, err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		var txnType string
		var counterparty sql.NullString
		err := rows.Scan(
			&txn.TransactionID,
			&txn.AccountNumber,
			&txnType,
			&txn.Amount,
			&txn.Details,
			&counterparty,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txn.Type = domain.TransactionType(txnType)
		txn.CounterpartyAccount = counterparty.String
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
