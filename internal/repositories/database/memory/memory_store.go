// Package memory provides an in-memory implementation of the repository
// facades. It is used by the test suite and for local development without a
// database; the concurrency contract matches the pgsql store (per-account
// serialization with a bounded lock wait, deterministic lock order).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
)

// DefaultAcquireTimeout bounds the lock wait when none is configured.
const DefaultAcquireTimeout = 3 * time.Second

// Store holds all four record sets behind one RWMutex, plus a per-account lock
// map used to serialize ledger mutations on overlapping account sets without
// blocking operations on disjoint accounts.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]*domain.Account
	txns      []domain.Transaction
	attempts  []domain.LoginAttempt
	alerts    []domain.FraudAlert
	alertKeys map[string]struct{}

	locksMu   sync.Mutex
	acctLocks map[string]*sync.Mutex

	acquireTimeout time.Duration

	// CommitHook, when set, runs after validation and before any state is
	// mutated inside ApplyLedgerChange. Tests use it to inject mid-operation
	// failures and assert that nothing was applied.
	CommitHook func() error
}

// NewStore creates a new in-memory data store.
func NewStore(acquireTimeout time.Duration) *Store {
	if acquireTimeout <= 0 {
		acquireTimeout = DefaultAcquireTimeout
	}
	return &Store{
		accounts:       make(map[string]*domain.Account),
		alertKeys:      make(map[string]struct{}),
		acctLocks:      make(map[string]*sync.Mutex),
		acquireTimeout: acquireTimeout,
	}
}

// Repositories exposes the store as a repository provider.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: s,
		LedgerRepo:  s,
		AttemptRepo: s,
		AlertRepo:   s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade      = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade       = (*Store)(nil)
	_ portsrepo.LoginAttemptRepositoryFacade = (*Store)(nil)
	_ portsrepo.FraudAlertRepositoryFacade   = (*Store)(nil)
)

func (s *Store) getAccountLock(accountNumber string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.acctLocks[accountNumber]
	if !ok {
		l = &sync.Mutex{}
		s.acctLocks[accountNumber] = l
	}
	return l
}

// --- AccountRepositoryFacade ---

// SaveAccount persists a new account, stamping it at commit time.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountNumber]; exists {
		return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, account.AccountNumber)
	}
	for _, existing := range s.accounts {
		if existing.Phone == account.Phone {
			return fmt.Errorf("%w: phone %s", apperrors.ErrDuplicate, account.Phone)
		}
	}

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.AccountNumber] = &account
	return nil
}

// FindAccountByNumber retrieves a copy of the account with the given number.
func (s *Store) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountNumber]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
	}
	copied := *acc
	return &copied, nil
}

// FindAccountByPhone retrieves a copy of the account registered to phone.
func (s *Store) FindAccountByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if acc.Phone == phone {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: phone %s", apperrors.ErrNotFound, phone)
}

// ListAccounts retrieves all accounts, newest first.
func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		list = append(list, *acc)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].AccountNumber < list[j].AccountNumber
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// SummarizeBalances returns bank-wide account count and balance totals.
func (s *Store) SummarizeBalances(ctx context.Context) (*domain.BankSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &domain.BankSummary{}
	for _, acc := range s.accounts {
		summary.TotalAccounts++
		summary.TotalMainBalance = summary.TotalMainBalance.Add(acc.MainBalance)
		summary.TotalWalletBalance = summary.TotalWalletBalance.Add(acc.WalletBalance)
	}
	return summary, nil
}

// DeleteAccountCascade removes an account and its transaction history.
func (s *Store) DeleteAccountCascade(ctx context.Context, accountNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountNumber]; !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
	}
	delete(s.accounts, accountNumber)

	kept := s.txns[:0]
	for _, txn := range s.txns {
		if txn.AccountNumber != accountNumber {
			kept = append(kept, txn)
		}
	}
	s.txns = kept
	return nil
}

// --- LedgerRepositoryFacade ---

// ApplyLedgerChange applies balance deltas and appends the paired transaction
// rows as one indivisible unit. Account locks are taken in ascending
// account-number order with a bounded wait.
func (s *Store) ApplyLedgerChange(ctx context.Context, changes map[string]domain.BalanceChange, transactions []domain.Transaction) ([]domain.Transaction, error) {
	accountNumbers := make([]string, 0, len(changes))
	for accountNumber := range changes {
		accountNumbers = append(accountNumbers, accountNumber)
	}
	sort.Strings(accountNumbers)

	acquired, err := s.lockAccounts(ctx, accountNumbers)
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate everything before touching any balance.
	newBalances := make(map[string]domain.BalanceChange, len(changes))
	for _, accountNumber := range accountNumbers {
		acc, ok := s.accounts[accountNumber]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
		}
		delta := changes[accountNumber]
		newMain := acc.MainBalance.Add(delta.Main)
		newWallet := acc.WalletBalance.Add(delta.Wallet)
		if newMain.IsNegative() || newWallet.IsNegative() {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrInsufficientFunds, accountNumber)
		}
		newBalances[accountNumber] = domain.BalanceChange{Main: newMain, Wallet: newWallet}
	}

	if s.CommitHook != nil {
		if err := s.CommitHook(); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	for accountNumber, balances := range newBalances {
		acc := s.accounts[accountNumber]
		acc.MainBalance = balances.Main
		acc.WalletBalance = balances.Wallet
		acc.UpdatedAt = now
	}

	committed := make([]domain.Transaction, len(transactions))
	for i, txn := range transactions {
		txn.CreatedAt = now
		s.txns = append(s.txns, txn)
		committed[i] = txn
	}
	return committed, nil
}

// lockAccounts acquires the per-account mutexes in the given (sorted) order,
// bounded by the configured acquire timeout. On timeout all acquired locks are
// released and ErrConflict is returned.
func (s *Store) lockAccounts(ctx context.Context, accountNumbers []string) ([]*sync.Mutex, error) {
	deadline := time.Now().Add(s.acquireTimeout)
	acquired := make([]*sync.Mutex, 0, len(accountNumbers))

	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}

	for _, accountNumber := range accountNumbers {
		l := s.getAccountLock(accountNumber)
		for !l.TryLock() {
			if err := ctx.Err(); err != nil {
				release()
				return nil, err
			}
			if time.Now().After(deadline) {
				release()
				return nil, fmt.Errorf("%w: could not lock account %s within %s",
					apperrors.ErrConflict, accountNumber, s.acquireTimeout)
			}
			time.Sleep(50 * time.Microsecond)
		}
		acquired = append(acquired, l)
	}
	return acquired, nil
}

// ListTransactionsByAccount retrieves an account's history, oldest first.
func (s *Store) ListTransactionsByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []domain.Transaction
	for _, txn := range s.txns {
		if txn.AccountNumber == accountNumber {
			list = append(list, txn)
		}
	}
	return list, nil
}

// CountTransactionsSince counts an account's transactions created at or after
// the given instant.
func (s *Store) CountTransactionsSince(ctx context.Context, accountNumber string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, txn := range s.txns {
		if txn.AccountNumber == accountNumber && !txn.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// ListTransactionsFiltered retrieves an account's transactions within an
// optional date range, newest first.
func (s *Store) ListTransactionsFiltered(ctx context.Context, accountNumber string, from, to *time.Time) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []domain.Transaction
	for _, txn := range s.txns {
		if txn.AccountNumber != accountNumber {
			continue
		}
		if from != nil && txn.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && txn.CreatedAt.After(*to) {
			continue
		}
		list = append(list, txn)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// --- LoginAttemptRepositoryFacade ---

// SaveLoginAttempt appends one attempt, stamping it at commit time.
func (s *Store) SaveLoginAttempt(ctx context.Context, attempt domain.LoginAttempt) (*domain.LoginAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt.CreatedAt = time.Now().UTC()
	s.attempts = append(s.attempts, attempt)
	return &attempt, nil
}

// CountFailuresSince counts failed attempts for an identifier created at or
// after the given instant.
func (s *Store) CountFailuresSince(ctx context.Context, identifier string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.attempts {
		if a.Identifier == identifier && !a.Success && !a.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// ListAttemptsSince retrieves all attempts for an identifier created at or
// after the given instant, newest first.
func (s *Store) ListAttemptsSince(ctx context.Context, identifier string, since time.Time) ([]domain.LoginAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []domain.LoginAttempt
	for _, a := range s.attempts {
		if a.Identifier == identifier && !a.CreatedAt.Before(since) {
			list = append(list, a)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// --- FraudAlertRepositoryFacade ---

func alertKey(alert domain.FraudAlert) string {
	return alert.AccountNumber + "|" + string(alert.Kind) + "|" + alert.TriggerID
}

// SaveAlert appends an alert, dropping duplicates of the same
// (account, kind, trigger id) key.
func (s *Store) SaveAlert(ctx context.Context, alert domain.FraudAlert) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if alert.TriggerID != "" {
		key := alertKey(alert)
		if _, seen := s.alertKeys[key]; seen {
			return false, nil
		}
		s.alertKeys[key] = struct{}{}
	}

	now := time.Now().UTC()
	alert.CreatedAt = now
	alert.UpdatedAt = now
	s.alerts = append(s.alerts, alert)
	return true, nil
}

// ListAlerts retrieves alerts, newest first.
func (s *Store) ListAlerts(ctx context.Context, onlyUnresolved bool) ([]domain.FraudAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []domain.FraudAlert
	for _, alert := range s.alerts {
		if onlyUnresolved && alert.Resolved {
			continue
		}
		list = append(list, alert)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// SetAlertResolved updates the resolved flag of an alert.
func (s *Store) SetAlertResolved(ctx context.Context, alertID string, resolved bool, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].AlertID == alertID {
			s.alerts[i].Resolved = resolved
			s.alerts[i].UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("%w: alert %s", apperrors.ErrNotFound, alertID)
}
