package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	portssvc "github.com/moneta-ict/moneta-backend/internal/core/ports/services"
	"github.com/moneta-ict/moneta-backend/internal/core/services"
	"github.com/moneta-ict/moneta-backend/internal/dto"
	"github.com/moneta-ict/moneta-backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockRequestRepo *MockRequestRepository
	service         portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockRequestRepo = new(MockRequestRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockRequestRepo)
}

func (suite *UserServiceTestSuite) registerRequest(country string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "Str0ng!pass",
		FullName: "Maria Gomez",
		Country:  country,
	}
}

func (suite *UserServiceTestSuite) TestRegister_ColombiaGetsBonus() {
	ctx := context.Background()
	req := suite.registerRequest("CO")

	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, req.Username, req.Email).Return(nil, apperrors.ErrNotFound).Once()

	var savedUser domain.User
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			savedUser = args.Get(1).(domain.User)
		}).Return(nil).Once()

	// The bonus transaction locks the row the save just created.
	lockedUser := &domain.User{
		UserID:       "unknown-yet",
		Balance:      decimal.Zero,
		CurrencyCode: "COP",
	}
	// The user ID is generated inside Register, so match any ID.
	suite.mockRequestRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRequestRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)
	suite.mockUserRepo.On("FindUserByIDForUpdate", mock.Anything, mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			lockedUser.UserID = args.Get(2).(string)
		}).Return(lockedUser, nil).Once()
	suite.mockUserRepo.On("UpdateUserBalanceInTx", mock.Anything, mock.Anything, mock.AnythingOfType("string"),
		mock.MatchedBy(func(b decimal.Decimal) bool { return b.Equal(decimal.NewFromInt(12000)) }), mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("MarkWelcomeBonusInTx", mock.Anything, mock.Anything, mock.AnythingOfType("string"), "COP", mock.Anything).Return(nil).Once()

	var savedRequest domain.Request
	suite.mockRequestRepo.On("SaveRequestInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Request")).
		Run(func(args mock.Arguments) {
			savedRequest = args.Get(2).(domain.Request)
		}).Return(nil).Once()
	suite.mockRequestRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("COP", savedUser.CurrencyCode)
	suite.True(savedUser.Balance.IsZero(), "registration itself must not credit the ledger")
	suite.Equal(domain.RoleUser, savedUser.Role)

	suite.True(user.Balance.Equal(decimal.NewFromInt(12000)))
	suite.True(user.WelcomeBonusCredited)

	suite.Equal(domain.TypeWelcomeBonus, savedRequest.Type)
	suite.Equal(domain.StatusCompleted, savedRequest.Status)
	suite.Equal("system", savedRequest.ResolvedBy)
	suite.True(savedRequest.Amount.Equal(decimal.NewFromInt(12000)))
	suite.Contains(savedRequest.Description, "Colombia")

	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockRequestRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_UnsupportedCountrySkipsBonus() {
	ctx := context.Background()
	req := suite.registerRequest("US")

	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, req.Username, req.Email).Return(nil, apperrors.ErrNotFound).Once()

	var savedUser domain.User
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			savedUser = args.Get(1).(domain.User)
		}).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err, "an unsupported country must not fail registration")
	suite.Require().NotNil(user)
	suite.True(user.Balance.IsZero())
	suite.False(user.WelcomeBonusCredited)
	suite.Equal("USD", savedUser.CurrencyCode)

	// No bonus transaction was ever opened.
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateUser() {
	ctx := context.Background()
	req := suite.registerRequest("CO")

	existing := &domain.User{UserID: "existing"}
	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, req.Username, req.Email).Return(existing, nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegister_BonusFailureStillCreatesAccount() {
	ctx := context.Background()
	req := suite.registerRequest("PE")

	suite.mockUserRepo.On("FindUserByUsernameOrEmail", ctx, req.Username, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	suite.mockRequestRepo.On("Begin", mock.Anything).Return(nil, assert.AnError).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err, "a failed bonus credit must not fail registration")
	suite.Require().NotNil(user)
	suite.True(user.Balance.IsZero())
}

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("Str0ng!pass")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: "u1", Username: "maria", PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByUsername", ctx, "maria").Return(stored, nil).Once()

	user, err := suite.service.Authenticate(ctx, "maria", "Str0ng!pass")

	suite.Require().NoError(err)
	suite.Equal("u1", user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("Str0ng!pass")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: "u1", Username: "maria", PasswordHash: hash}
	suite.mockUserRepo.On("FindUserByUsername", ctx, "maria").Return(stored, nil).Once()

	_, err = suite.service.Authenticate(ctx, "maria", "wrong")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownUser() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(ctx, "ghost", "whatever")
	suite.ErrorIs(err, apperrors.ErrUnauthorized, "unknown users and bad passwords must be indistinguishable")
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
