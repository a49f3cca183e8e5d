package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ebanklabs/ebank_backend/internal/apperrors"
	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/internal/core/services"
	"github.com/ebanklabs/ebank_backend/internal/dto"
	"github.com/ebanklabs/ebank_backend/internal/utils"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	MockAccountReader
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccountCascade(ctx context.Context, accountNumber string) error {
	args := m.Called(ctx, accountNumber)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Name: "Ada", Phone: "555-0100", PIN: "1234"}

	var savedAccount domain.Account
	// First lookup checks number uniqueness, second fetches the stored row.
	suite.mockRepo.On("FindAccountByNumber", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			savedAccount = args.Get(1).(domain.Account)
			savedAccount.CreatedAt = time.Now().UTC()
		}).
		Return(nil).Once()
	suite.mockRepo.On("FindAccountByNumber", ctx, mock.AnythingOfType("string")).
		Return(&savedAccount, nil).Once()

	created, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal("Ada", savedAccount.Name)
	suite.Equal("555-0100", savedAccount.Phone)
	suite.True(utils.IsValidAccountNumber(savedAccount.AccountNumber))
	suite.True(savedAccount.MainBalance.IsZero())
	suite.True(savedAccount.WalletBalance.IsZero())

	// PIN is stored hashed, never in the clear.
	suite.NotEqual("1234", savedAccount.PINHash)
	suite.True(utils.CheckPINHash("1234", savedAccount.PINHash))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicatePhone() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Name: "Ada", Phone: "555-0100", PIN: "1234"}

	suite.mockRepo.On("FindAccountByNumber", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicate).Once()

	created, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Contains(err.Error(), "555-0100")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RetriesTakenNumbers() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Name: "Ada", Phone: "555-0100", PIN: "1234"}

	taken := &domain.Account{AccountNumber: "collision"}
	suite.mockRepo.On("FindAccountByNumber", ctx, mock.AnythingOfType("string")).
		Return(taken, nil).Twice()
	suite.mockRepo.On("FindAccountByNumber", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(nil).Once()
	suite.mockRepo.On("FindAccountByNumber", ctx, mock.AnythingOfType("string")).
		Return(&domain.Account{AccountNumber: "10000001"}, nil).Once()

	created, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccount_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByNumber", ctx, "99999999").
		Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccount(ctx, "99999999")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByNumber", ctx, "10000001").
		Return(&domain.Account{AccountNumber: "10000001"}, nil).Once()
	suite.mockRepo.On("DeleteAccountCascade", ctx, "10000001").Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, "10000001")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByNumber", ctx, "99999999").
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteAccount(ctx, "99999999")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccountCascade", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccounts_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx).Return(nil, assert.AnError).Once()

	accounts, err := suite.service.ListAccounts(ctx)

	suite.Require().Error(err)
	suite.Nil(accounts)
	suite.ErrorIs(err, assert.AnError)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
