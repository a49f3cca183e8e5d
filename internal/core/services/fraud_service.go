package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/middleware"
	"github.com/ebanklabs/ebank_backend/pkg/config"
)

// fraudService scores transaction and login streams for anomalies. Scoring is
// pure over the histories it reads; persistence happens only in the Check*
// entry points, which run after the triggering event has committed.
type fraudService struct {
	ledgerRepo  portsrepo.LedgerReader
	attemptRepo portsrepo.LoginAttemptRepositoryFacade
	alertRepo   portsrepo.FraudAlertRepositoryFacade
	accountRepo portsrepo.AccountReader
	cfg         config.FraudConfig
}

// NewFraudService creates a new fraud detection service.
func NewFraudService(
	ledgerRepo portsrepo.LedgerReader,
	attemptRepo portsrepo.LoginAttemptRepositoryFacade,
	alertRepo portsrepo.FraudAlertRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	cfg config.FraudConfig,
) portssvc.FraudSvcFacade {
	return &fraudService{
		ledgerRepo:  ledgerRepo,
		attemptRepo: attemptRepo,
		alertRepo:   alertRepo,
		accountRepo: accountRepo,
		cfg:         cfg,
	}
}

var _ portssvc.FraudSvcFacade = (*fraudService)(nil)

// ScoreAccount re-scans an account's full transaction history and returns the
// flags without persisting anything.
func (s *fraudService) ScoreAccount(ctx context.Context, accountNumber string) ([]domain.FraudFlag, error) {
	if _, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber); err != nil {
		return nil, fmt.Errorf("scoring unknown account %s: %w", accountNumber, err)
	}

	history, err := s.ledgerRepo.ListTransactionsByAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	flags := s.statisticalFlags(accountNumber, history)
	flags = append(flags, s.ruleFlags(accountNumber, history, now)...)
	return flags, nil
}

// ScoreIdentifierLogins re-scans the recent login attempts of an identifier and
// returns the flags without persisting anything.
func (s *fraudService) ScoreIdentifierLogins(ctx context.Context, identifier string) ([]domain.FraudFlag, error) {
	now := time.Now().UTC()
	since := now.Add(-s.cfg.BruteForceWindow)

	attempts, err := s.attemptRepo.ListAttemptsSince(ctx, identifier, since)
	if err != nil {
		return nil, err
	}

	var failures []domain.LoginAttempt
	isAdmin := false
	for _, a := range attempts {
		if a.IsAdmin {
			isAdmin = true
		}
		if !a.Success {
			failures = append(failures, a)
		}
	}
	if len(failures) < s.cfg.BruteForceThreshold {
		return nil, nil
	}

	flag := s.bruteForceFlag(identifier, isAdmin, len(failures), failures[0].AttemptID, now)
	return []domain.FraudFlag{flag}, nil
}

// CheckTransactions evaluates freshly committed transactions, persists any
// flags as alerts, and returns them. Re-detection of historical violations is
// expected; the alert sink deduplicates on (account, kind, trigger id).
func (s *fraudService) CheckTransactions(ctx context.Context, transactions []domain.Transaction) ([]domain.FraudFlag, error) {
	accounts := make(map[string]struct{}, len(transactions))
	for _, txn := range transactions {
		accounts[txn.AccountNumber] = struct{}{}
	}

	now := time.Now().UTC()
	var flags []domain.FraudFlag
	for accountNumber := range accounts {
		history, err := s.ledgerRepo.ListTransactionsByAccount(ctx, accountNumber)
		if err != nil {
			return nil, err
		}
		flags = append(flags, s.statisticalFlags(accountNumber, history)...)
		flags = append(flags, s.ruleFlags(accountNumber, history, now)...)
	}

	s.persistFlags(ctx, flags)
	return flags, nil
}

// CheckLoginAttempt evaluates a freshly recorded login attempt, persists any
// flags as alerts, and returns them. Bursts against the operator identifier
// are flagged with elevated severity and no account reference.
func (s *fraudService) CheckLoginAttempt(ctx context.Context, attempt domain.LoginAttempt) ([]domain.FraudFlag, error) {
	since := attempt.CreatedAt.Add(-s.cfg.BruteForceWindow)

	failures, err := s.attemptRepo.CountFailuresSince(ctx, attempt.Identifier, since)
	if err != nil {
		return nil, err
	}
	if failures < s.cfg.BruteForceThreshold {
		return nil, nil
	}

	flag := s.bruteForceFlag(attempt.Identifier, attempt.IsAdmin, failures, attempt.AttemptID, attempt.CreatedAt)
	if !attempt.IsAdmin {
		// Attach the targeted account when the identifier maps to one.
		if account, err := s.accountRepo.FindAccountByPhone(ctx, attempt.Identifier); err == nil {
			flag.AccountNumber = account.AccountNumber
		}
	}

	flags := []domain.FraudFlag{flag}
	s.persistFlags(ctx, flags)
	return flags, nil
}

// ListAlerts retrieves persisted alerts for operator review, newest first.
func (s *fraudService) ListAlerts(ctx context.Context, onlyUnresolved bool) ([]domain.FraudAlert, error) {
	return s.alertRepo.ListAlerts(ctx, onlyUnresolved)
}

// ResolveAlert updates the resolved flag of an alert.
func (s *fraudService) ResolveAlert(ctx context.Context, alertID string, resolved bool) error {
	return s.alertRepo.SetAlertResolved(ctx, alertID, resolved, time.Now().UTC())
}

// statisticalFlags flags transactions whose amount lies beyond the z-score
// threshold from the account's mean. Requires the configured minimum number of
// data points; a zero standard deviation yields no flags.
func (s *fraudService) statisticalFlags(accountNumber string, history []domain.Transaction) []domain.FraudFlag {
	if len(history) < s.cfg.ZScoreMinSamples {
		return nil
	}

	amounts := make([]float64, len(history))
	sum := 0.0
	for i, txn := range history {
		amounts[i] = txn.Amount.InexactFloat64()
		sum += amounts[i]
	}
	mean := sum / float64(len(amounts))

	variance := 0.0
	for _, a := range amounts {
		variance += (a - mean) * (a - mean)
	}
	variance /= float64(len(amounts))
	if variance <= 0 {
		return nil
	}
	std := math.Sqrt(variance)

	var flags []domain.FraudFlag
	for i, txn := range history {
		z := math.Abs(amounts[i]-mean) / std
		if z >= s.cfg.ZScoreThreshold {
			flags = append(flags, domain.FraudFlag{
				AccountNumber: accountNumber,
				Kind:          domain.StatisticalOutlier,
				Description:   fmt.Sprintf("Amount %s deviates %.1f std devs from account mean", txn.Amount.String(), z),
				Severity:      domain.SeverityMedium,
				TriggerID:     txn.TransactionID,
				Amount:        txn.Amount,
				ObservedAt:    txn.CreatedAt,
			})
		}
	}
	return flags
}

// ruleFlags applies the windowed threshold rules over an account's history.
// History must be ordered by creation time ascending.
func (s *fraudService) ruleFlags(accountNumber string, history []domain.Transaction, now time.Time) []domain.FraudFlag {
	windowStart := now.Add(-s.cfg.FrequencyWindow)

	var recent []domain.Transaction
	for _, txn := range history {
		if !txn.CreatedAt.Before(windowStart) {
			recent = append(recent, txn)
		}
	}

	var flags []domain.FraudFlag
	if len(recent) >= s.cfg.FrequencyThreshold {
		latest := recent[len(recent)-1]
		flags = append(flags, domain.FraudFlag{
			AccountNumber: accountNumber,
			Kind:          domain.HighFrequency,
			Description:   fmt.Sprintf("%d transactions within %s", len(recent), s.cfg.FrequencyWindow),
			Severity:      domain.SeverityHigh,
			TriggerID:     latest.TransactionID,
			Count:         len(recent),
			ObservedAt:    now,
		})
	}

	for _, txn := range recent {
		if txn.Type == domain.WithdrawToWallet && txn.Amount.GreaterThanOrEqual(s.cfg.LargeWithdrawalThreshold) {
			flags = append(flags, domain.FraudFlag{
				AccountNumber: accountNumber,
				Kind:          domain.LargeWithdrawal,
				Description:   fmt.Sprintf("Wallet withdrawal of %s", txn.Amount.String()),
				Severity:      domain.SeverityHigh,
				TriggerID:     txn.TransactionID,
				Amount:        txn.Amount,
				ObservedAt:    txn.CreatedAt,
			})
		}
	}
	return flags
}

func (s *fraudService) bruteForceFlag(identifier string, isAdmin bool, failures int, triggerID string, observedAt time.Time) domain.FraudFlag {
	severity := domain.SeverityMedium
	description := fmt.Sprintf("%d failed logins for %s within %s", failures, identifier, s.cfg.BruteForceWindow)
	if isAdmin {
		// A burst against the operator identifier endangers the whole system.
		severity = domain.SeverityHigh
		description = fmt.Sprintf("%d failed operator logins within %s", failures, s.cfg.BruteForceWindow)
	}
	return domain.FraudFlag{
		Kind:        domain.LoginBruteForce,
		Description: description,
		Severity:    severity,
		TriggerID:   triggerID,
		Count:       failures,
		ObservedAt:  observedAt,
	}
}

// persistFlags hands flags to the alert sink. The triggering event has already
// committed, so sink failures are logged rather than propagated.
func (s *fraudService) persistFlags(ctx context.Context, flags []domain.FraudFlag) {
	logger := middleware.GetLoggerFromCtx(ctx)

	for _, flag := range flags {
		alert := domain.FraudAlert{
			AlertID:       uuid.NewString(),
			AccountNumber: flag.AccountNumber,
			Kind:          flag.Kind,
			Description:   flag.Description,
			Severity:      flag.Severity,
			TriggerID:     flag.TriggerID,
			Resolved:      false,
		}
		created, err := s.alertRepo.SaveAlert(ctx, alert)
		if err != nil {
			logger.Error("Failed to persist fraud alert",
				slog.String("kind", string(flag.Kind)),
				slog.String("account", flag.AccountNumber),
				slog.String("error", err.Error()))
			continue
		}
		if created {
			logger.Warn("Fraud alert raised",
				slog.String("kind", string(flag.Kind)),
				slog.String("severity", string(flag.Severity)),
				slog.String("account", flag.AccountNumber))
		}
	}
}
