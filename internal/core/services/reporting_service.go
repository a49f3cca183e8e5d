package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/middleware"
)

type reportingService struct {
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader) portssvc.ReportingSvcFacade {
	return &reportingService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// Summary returns bank-wide account count and balance totals.
func (s *reportingService) Summary(ctx context.Context) (*domain.BankSummary, error) {
	return s.accountRepo.SummarizeBalances(ctx)
}

// Reconcile replays every account's transaction log and compares the computed
// balances with the stored ones. A mismatch means a balance changed without a
// paired ledger entry (or vice versa) and is reported as ErrInconsistent.
func (s *reportingService) Reconcile(ctx context.Context) (*domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.ReconciliationReport{AccountsChecked: len(accounts)}
	for _, account := range accounts {
		history, err := s.ledgerRepo.ListTransactionsByAccount(ctx, account.AccountNumber)
		if err != nil {
			return nil, err
		}

		computedMain, computedWallet := replayBalances(history)
		if computedMain.Equal(account.MainBalance) && computedWallet.Equal(account.WalletBalance) {
			continue
		}

		report.Mismatches = append(report.Mismatches, domain.ReconciliationMismatch{
			AccountNumber:  account.AccountNumber,
			StoredMain:     account.MainBalance,
			ComputedMain:   computedMain,
			StoredWallet:   account.WalletBalance,
			ComputedWallet: computedWallet,
		})
		logger.Error("Account failed reconciliation",
			slog.String("account_number", account.AccountNumber),
			slog.String("stored_main", account.MainBalance.String()),
			slog.String("computed_main", computedMain.String()))
	}

	if len(report.Mismatches) > 0 {
		return report, fmt.Errorf("%w: %d of %d accounts do not reconcile",
			apperrors.ErrInconsistent, len(report.Mismatches), len(accounts))
	}
	return report, nil
}

// replayBalances folds a transaction history into the main and wallet balances
// it implies, starting from the zero balances every account opens with.
func replayBalances(history []domain.Transaction) (main, wallet decimal.Decimal) {
	main, wallet = decimal.Zero, decimal.Zero
	for _, txn := range history {
		switch txn.Type {
		case domain.Deposit, domain.TransferIn:
			main = main.Add(txn.Amount)
		case domain.TransferOut:
			main = main.Sub(txn.Amount)
		case domain.WithdrawToWallet:
			main = main.Sub(txn.Amount)
			wallet = wallet.Add(txn.Amount)
		}
	}
	return main, wallet
}
