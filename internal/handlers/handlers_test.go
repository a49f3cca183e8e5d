package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/dto"
	"github.com/ebanklabs/ebank_backend/internal/handlers"
	"github.com/ebanklabs/ebank_backend/internal/utils"
	"github.com/ebanklabs/ebank_backend/pkg/config"
)

// --- Service mocks ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountNumber string) error {
	args := m.Called(ctx, accountNumber)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, details string) (*domain.Transaction, error) {
	args := m.Called(ctx, accountNumber, amount, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) WithdrawToWallet(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, fromAccount, toAccount string, amount decimal.Decimal, details string) (*domain.Transaction, *domain.Transaction, error) {
	args := m.Called(ctx, fromAccount, toAccount, amount, details)
	var out, in *domain.Transaction
	if args.Get(0) != nil {
		out = args.Get(0).(*domain.Transaction)
	}
	if args.Get(1) != nil {
		in = args.Get(1).(*domain.Transaction)
	}
	return out, in, args.Error(2)
}

func (m *MockLedgerService) History(ctx context.Context, accountNumber string, from, to *time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountNumber, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

type MockFraudService struct {
	mock.Mock
}

func (m *MockFraudService) ScoreAccount(ctx context.Context, accountNumber string) ([]domain.FraudFlag, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FraudFlag), args.Error(1)
}

func (m *MockFraudService) ScoreIdentifierLogins(ctx context.Context, identifier string) ([]domain.FraudFlag, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FraudFlag), args.Error(1)
}

func (m *MockFraudService) CheckTransactions(ctx context.Context, transactions []domain.Transaction) ([]domain.FraudFlag, error) {
	args := m.Called(ctx, transactions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FraudFlag), args.Error(1)
}

func (m *MockFraudService) CheckLoginAttempt(ctx context.Context, attempt domain.LoginAttempt) ([]domain.FraudFlag, error) {
	args := m.Called(ctx, attempt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FraudFlag), args.Error(1)
}

func (m *MockFraudService) ListAlerts(ctx context.Context, onlyUnresolved bool) ([]domain.FraudAlert, error) {
	args := m.Called(ctx, onlyUnresolved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FraudAlert), args.Error(1)
}

func (m *MockFraudService) ResolveAlert(ctx context.Context, alertID string, resolved bool) error {
	args := m.Called(ctx, alertID, resolved)
	return args.Error(0)
}

var _ portssvc.FraudSvcFacade = (*MockFraudService)(nil)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) LoginCustomer(ctx context.Context, phone, pin string) (string, *domain.Account, error) {
	args := m.Called(ctx, phone, pin)
	var account *domain.Account
	if args.Get(1) != nil {
		account = args.Get(1).(*domain.Account)
	}
	return args.String(0), account, args.Error(2)
}

func (m *MockAuthService) LoginOperator(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RecordLoginAttempt(ctx context.Context, identifier string, isAdmin, success bool) (*domain.LoginAttempt, error) {
	args := m.Called(ctx, identifier, isAdmin, success)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginAttempt), args.Error(1)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) Summary(ctx context.Context) (*domain.BankSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankSummary), args.Error(1)
}

func (m *MockReportingService) Reconcile(ctx context.Context) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

// --- Test Suite ---

type HandlersTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockAccount   *MockAccountService
	mockLedger    *MockLedgerService
	mockFraud     *MockFraudService
	mockAuth      *MockAuthService
	mockReporting *MockReportingService
	cfg           *config.Config
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "ebank-test",
	}

	suite.mockAccount = new(MockAccountService)
	suite.mockLedger = new(MockLedgerService)
	suite.mockFraud = new(MockFraudService)
	suite.mockAuth = new(MockAuthService)
	suite.mockReporting = new(MockReportingService)

	services := &portssvc.ServiceContainer{
		Account:   suite.mockAccount,
		Ledger:    suite.mockLedger,
		Fraud:     suite.mockFraud,
		Auth:      suite.mockAuth,
		Reporting: suite.mockReporting,
	}

	noRateLimit := func(c *gin.Context) { c.Next() }
	handlers.RegisterRoutes(suite.router, suite.cfg, services, noRateLimit)
}

func (suite *HandlersTestSuite) token(subject string, operator bool) string {
	token, err := utils.GenerateJWT(subject, operator, suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	return token
}

func (suite *HandlersTestSuite) do(method, url, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestCustomerLogin_Success() {
	account := &domain.Account{AccountNumber: "10000001", Phone: "555-0100"}
	suite.mockAuth.On("LoginCustomer", mock.Anything, "555-0100", "1234").
		Return("signed-token", account, nil).Once()

	w := suite.do(http.MethodPost, "/auth/login", "", dto.CustomerLoginRequest{Phone: "555-0100", PIN: "1234"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("signed-token", resp.Token)
	suite.Equal("10000001", resp.AccountNumber)
}

func (suite *HandlersTestSuite) TestCustomerLogin_BadCredentials() {
	suite.mockAuth.On("LoginCustomer", mock.Anything, "555-0100", "9999").
		Return("", nil, apperrors.ErrUnauthorized).Once()

	w := suite.do(http.MethodPost, "/auth/login", "", dto.CustomerLoginRequest{Phone: "555-0100", PIN: "9999"})

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestCustomerLogin_MissingFields() {
	w := suite.do(http.MethodPost, "/auth/login", "", map[string]string{"phone": "555-0100"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAuth.AssertNotCalled(suite.T(), "LoginCustomer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestDeposit_RequiresAuth() {
	w := suite.do(http.MethodPost, "/api/v1/account/deposit", "", dto.DepositRequest{Amount: decimal.NewFromInt(10)})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestDeposit_Success() {
	txn := &domain.Transaction{TransactionID: "txn-1", AccountNumber: "10000001", Type: domain.Deposit, Amount: decimal.NewFromInt(10)}
	suite.mockLedger.On("Deposit", mock.Anything, "10000001", decimal.NewFromInt(10), "").
		Return(txn, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/account/deposit", suite.token("10000001", false),
		dto.DepositRequest{Amount: decimal.NewFromInt(10)})

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestWithdrawToWallet_InsufficientFunds() {
	suite.mockLedger.On("WithdrawToWallet", mock.Anything, "10000001", decimal.NewFromInt(500)).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	w := suite.do(http.MethodPost, "/api/v1/account/withdraw-to-wallet", suite.token("10000001", false),
		dto.WithdrawToWalletRequest{Amount: decimal.NewFromInt(500)})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestTransfer_ConflictMapsTo409() {
	suite.mockLedger.On("Transfer", mock.Anything, "10000001", "10000002", decimal.NewFromInt(10), "").
		Return(nil, nil, apperrors.ErrConflict).Once()

	w := suite.do(http.MethodPost, "/api/v1/account/transfer", suite.token("10000001", false),
		dto.TransferRequest{ToAccount: "10000002", Amount: decimal.NewFromInt(10)})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("1", w.Header().Get("Retry-After"))
}

func (suite *HandlersTestSuite) TestTransfer_InvalidReceiverRejectedAtBinding() {
	w := suite.do(http.MethodPost, "/api/v1/account/transfer", suite.token("10000001", false),
		dto.TransferRequest{ToAccount: "not-a-number", Amount: decimal.NewFromInt(10)})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "Transfer",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestTransfer_ValidationErrorMapsTo400() {
	suite.mockLedger.On("Transfer", mock.Anything, "10000001", "10000001", decimal.NewFromInt(10), "").
		Return(nil, nil, apperrors.ErrValidation).Once()

	w := suite.do(http.MethodPost, "/api/v1/account/transfer", suite.token("10000001", false),
		dto.TransferRequest{ToAccount: "10000001", Amount: decimal.NewFromInt(10)})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestAdminRoutes_ForbiddenForCustomers() {
	w := suite.do(http.MethodGet, "/api/v1/admin/accounts", suite.token("10000001", false), nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockAccount.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything)
}

func (suite *HandlersTestSuite) TestAdminCreateAccount_Success() {
	account := &domain.Account{AccountNumber: "10000001", Name: "Ada", Phone: "555-0100"}
	suite.mockAccount.On("CreateAccount", mock.Anything, mock.AnythingOfType("dto.CreateAccountRequest")).
		Return(account, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/accounts", suite.token("operator", true),
		dto.CreateAccountRequest{Name: "Ada", Phone: "555-0100", PIN: "1234"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("10000001", resp.AccountNumber)
}

func (suite *HandlersTestSuite) TestAdminCreateAccount_DuplicatePhone() {
	suite.mockAccount.On("CreateAccount", mock.Anything, mock.AnythingOfType("dto.CreateAccountRequest")).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.do(http.MethodPost, "/api/v1/admin/accounts", suite.token("operator", true),
		dto.CreateAccountRequest{Name: "Ada", Phone: "555-0100", PIN: "1234"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestAdminGetAccount_NotFound() {
	suite.mockAccount.On("GetAccount", mock.Anything, "99999999").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/admin/accounts/99999999", suite.token("operator", true), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestAdminResolveAlert() {
	suite.mockFraud.On("ResolveAlert", mock.Anything, "alert-1", true).Return(nil).Once()

	resolved := true
	w := suite.do(http.MethodPatch, "/api/v1/admin/alerts/alert-1", suite.token("operator", true),
		dto.ResolveAlertRequest{Resolved: &resolved})

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockFraud.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestAdminResolveAlert_MissingBody() {
	w := suite.do(http.MethodPatch, "/api/v1/admin/alerts/alert-1", suite.token("operator", true),
		map[string]string{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockFraud.AssertNotCalled(suite.T(), "ResolveAlert", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestAdminReconcile_MismatchMapsTo500() {
	report := &domain.ReconciliationReport{
		AccountsChecked: 2,
		Mismatches: []domain.ReconciliationMismatch{
			{AccountNumber: "10000001"},
		},
	}
	suite.mockReporting.On("Reconcile", mock.Anything).
		Return(report, apperrors.ErrInconsistent).Once()

	w := suite.do(http.MethodGet, "/api/v1/admin/reconcile", suite.token("operator", true), nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	var got domain.ReconciliationReport
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Len(got.Mismatches, 1)
}

func (suite *HandlersTestSuite) TestHistory_ParsesDateRange() {
	suite.mockLedger.On("History", mock.Anything, "10000001",
		mock.AnythingOfType("*time.Time"), mock.AnythingOfType("*time.Time")).
		Return([]domain.Transaction{}, nil).Once()

	w := suite.do(http.MethodGet,
		"/api/v1/account/transactions?from=2026-01-01&to=2026-01-31",
		suite.token("10000001", false), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestHistory_RejectsBadDate() {
	w := suite.do(http.MethodGet,
		"/api/v1/account/transactions?from=yesterday",
		suite.token("10000001", false), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "History", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
