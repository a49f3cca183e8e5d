package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockAccounts *MockAccountReader
	mockLedger   *MockLedgerReader
	service      portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockAccountReader)
	suite.mockLedger = new(MockLedgerReader)
	suite.service = services.NewReportingService(suite.mockAccounts, suite.mockLedger)
}

func (suite *ReportingServiceTestSuite) TestSummary() {
	ctx := context.Background()
	expected := &domain.BankSummary{
		TotalAccounts:      3,
		TotalMainBalance:   decimal.NewFromInt(1200),
		TotalWalletBalance: decimal.NewFromInt(80),
	}
	suite.mockAccounts.On("SummarizeBalances", ctx).Return(expected, nil).Once()

	summary, err := suite.service.Summary(ctx)

	suite.Require().NoError(err)
	suite.Equal(expected, summary)
}

func (suite *ReportingServiceTestSuite) TestReconcile_CleanLedger() {
	ctx := context.Background()
	now := time.Now().UTC()

	account := domain.Account{
		AccountNumber: "10000001",
		MainBalance:   decimal.NewFromInt(70),
		WalletBalance: decimal.NewFromInt(30),
	}
	history := []domain.Transaction{
		{TransactionID: uuid.NewString(), AccountNumber: "10000001", Type: domain.Deposit, Amount: decimal.NewFromInt(100), CreatedAt: now},
		{TransactionID: uuid.NewString(), AccountNumber: "10000001", Type: domain.WithdrawToWallet, Amount: decimal.NewFromInt(30), CreatedAt: now},
	}

	suite.mockAccounts.On("ListAccounts", ctx).Return([]domain.Account{account}, nil).Once()
	suite.mockLedger.On("ListTransactionsByAccount", ctx, "10000001").Return(history, nil).Once()

	report, err := suite.service.Reconcile(ctx)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Equal(1, report.AccountsChecked)
	suite.Empty(report.Mismatches)
}

func (suite *ReportingServiceTestSuite) TestReconcile_TransfersBalanceOut() {
	ctx := context.Background()
	now := time.Now().UTC()

	sender := domain.Account{AccountNumber: "10000001", MainBalance: decimal.NewFromInt(40)}
	receiver := domain.Account{AccountNumber: "10000002", MainBalance: decimal.NewFromInt(60)}

	suite.mockAccounts.On("ListAccounts", ctx).Return([]domain.Account{sender, receiver}, nil).Once()
	suite.mockLedger.On("ListTransactionsByAccount", ctx, "10000001").Return([]domain.Transaction{
		{TransactionID: uuid.NewString(), AccountNumber: "10000001", Type: domain.Deposit, Amount: decimal.NewFromInt(100), CreatedAt: now},
		{TransactionID: uuid.NewString(), AccountNumber: "10000001", Type: domain.TransferOut, Amount: decimal.NewFromInt(60), CreatedAt: now},
	}, nil).Once()
	suite.mockLedger.On("ListTransactionsByAccount", ctx, "10000002").Return([]domain.Transaction{
		{TransactionID: uuid.NewString(), AccountNumber: "10000002", Type: domain.TransferIn, Amount: decimal.NewFromInt(60), CreatedAt: now},
	}, nil).Once()

	report, err := suite.service.Reconcile(ctx)

	suite.Require().NoError(err)
	suite.Equal(2, report.AccountsChecked)
	suite.Empty(report.Mismatches)
}

func (suite *ReportingServiceTestSuite) TestReconcile_ReportsMismatch() {
	ctx := context.Background()
	now := time.Now().UTC()

	// Stored balance disagrees with what the log implies.
	account := domain.Account{AccountNumber: "10000001", MainBalance: decimal.NewFromInt(500)}
	history := []domain.Transaction{
		{TransactionID: uuid.NewString(), AccountNumber: "10000001", Type: domain.Deposit, Amount: decimal.NewFromInt(100), CreatedAt: now},
	}

	suite.mockAccounts.On("ListAccounts", ctx).Return([]domain.Account{account}, nil).Once()
	suite.mockLedger.On("ListTransactionsByAccount", ctx, "10000001").Return(history, nil).Once()

	report, err := suite.service.Reconcile(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInconsistent)
	suite.Require().NotNil(report)
	suite.Require().Len(report.Mismatches, 1)
	suite.Equal("10000001", report.Mismatches[0].AccountNumber)
	suite.True(report.Mismatches[0].StoredMain.Equal(decimal.NewFromInt(500)))
	suite.True(report.Mismatches[0].ComputedMain.Equal(decimal.NewFromInt(100)))
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
