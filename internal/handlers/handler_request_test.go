package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	"github.com/moneta-ict/moneta-backend/internal/dto"
	"github.com/moneta-ict/moneta-backend/internal/handlers"
	"github.com/moneta-ict/moneta-backend/internal/middleware"
	"github.com/moneta-ict/moneta-backend/internal/platform/config"
	"github.com/moneta-ict/moneta-backend/internal/storage"
	"github.com/moneta-ict/moneta-backend/internal/utils"
)

const testJWTSecret = "test-secret"

// --- Mock WorkflowService ---
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) CreateDeposit(ctx context.Context, userID string, req dto.CreateDepositRequest) (*domain.Request, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockWorkflowService) AttachEvidence(ctx context.Context, userID string, reference string, evidenceURL string) (*domain.Request, error) {
	args := m.Called(ctx, userID, reference, evidenceURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockWorkflowService) CreateWithdrawal(ctx context.Context, userID string, req dto.CreateWithdrawalRequest) (*domain.Request, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockWorkflowService) CreateInvestment(ctx context.Context, userID string, req dto.CreateInvestmentRequest) (*domain.Request, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockWorkflowService) Decide(ctx context.Context, reference string, decision domain.Decision, operatorID string) (*domain.Request, error) {
	args := m.Called(ctx, reference, decision, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockWorkflowService) GetRequest(ctx context.Context, userID string, reference string) (*domain.Request, error) {
	args := m.Called(ctx, userID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockWorkflowService) ListUserRequests(ctx context.Context, userID string, filter domain.RequestFilter) ([]domain.Request, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockWorkflowService) ListAllRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockWorkflowService) ListPlans(ctx context.Context) []domain.InvestmentPlan {
	args := m.Called(ctx)
	return args.Get(0).([]domain.InvestmentPlan)
}

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite Setup ---

type RequestHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockWorkflow *MockWorkflowService
	mockUser     *MockUserService
	userToken    string
	adminToken   string
}

func (suite *RequestHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockWorkflow = new(MockWorkflowService)
	suite.mockUser = new(MockUserService)

	cfg := &config.Config{
		JWTSecret:            testJWTSecret,
		DepositBankName:      "Sample Bank",
		DepositAccountNumber: "1234567890",
		DepositAccountName:   "MONETA-ICT",
	}

	store, err := storage.NewEvidenceStore(suite.T().TempDir(), "http://localhost:8080")
	suite.Require().NoError(err)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret))
	h := handlers.NewRequestHandler(suite.mockWorkflow, store, cfg)
	v1.POST("/requests/deposit", h.CreateDeposit)
	v1.GET("/requests", h.ListOwn)
	v1.GET("/investments/plans", h.ListPlans)

	ah := handlers.NewAdminHandler(suite.mockUser, suite.mockWorkflow)
	admin := v1.Group("/admin", middleware.RequireAdmin())
	admin.POST("/requests/:reference/decision", ah.Decide)

	suite.userToken, err = utils.GenerateJWT("u1", string(domain.RoleUser), testJWTSecret, time.Hour, "test")
	suite.Require().NoError(err)
	suite.adminToken, err = utils.GenerateJWT("op1", string(domain.RoleAdmin), testJWTSecret, time.Hour, "test")
	suite.Require().NoError(err)
}

func (suite *RequestHandlerTestSuite) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *RequestHandlerTestSuite) TestCreateDeposit_Success() {
	created := &domain.Request{
		RequestID:    "r1",
		Reference:    "DEP1",
		UserID:       "u1",
		Type:         domain.TypeDeposit,
		Amount:       decimal.NewFromInt(50000),
		CurrencyCode: "COP",
		Status:       domain.StatusPending,
	}
	suite.mockWorkflow.On("CreateDeposit", mock.Anything, "u1", mock.AnythingOfType("dto.CreateDepositRequest")).
		Return(created, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/requests/deposit", suite.userToken, gin.H{
		"amount":   50000,
		"currency": "COP",
	})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.DepositCreatedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("DEP1", resp.Request.Reference)
	suite.Equal("Sample Bank", resp.Instructions.BankName)
	suite.mockWorkflow.AssertExpectations(suite.T())
}

func (suite *RequestHandlerTestSuite) TestCreateDeposit_NoToken() {
	w := suite.doJSON(http.MethodPost, "/api/v1/requests/deposit", "", gin.H{
		"amount":   50000,
		"currency": "COP",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *RequestHandlerTestSuite) TestCreateDeposit_InvalidBody() {
	w := suite.doJSON(http.MethodPost, "/api/v1/requests/deposit", suite.userToken, gin.H{
		"amount": 50000,
		// currency missing
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockWorkflow.AssertNotCalled(suite.T(), "CreateDeposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestHandlerTestSuite) TestListOwn_PassesFilter() {
	suite.mockWorkflow.On("ListUserRequests", mock.Anything, "u1",
		domain.RequestFilter{Status: domain.StatusPending, Limit: 10, Offset: 0}).
		Return([]domain.Request{}, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/requests?status=PENDING&limit=10", suite.userToken, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockWorkflow.AssertExpectations(suite.T())
}

func (suite *RequestHandlerTestSuite) TestDecide_RequiresAdminRole() {
	w := suite.doJSON(http.MethodPost, "/api/v1/admin/requests/DEP1/decision", suite.userToken, gin.H{
		"decision": "approve",
	})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockWorkflow.AssertNotCalled(suite.T(), "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestHandlerTestSuite) TestDecide_ApproveSuccess() {
	resolved := &domain.Request{
		Reference:    "DEP1",
		UserID:       "u1",
		Type:         domain.TypeDeposit,
		Amount:       decimal.NewFromInt(500),
		CurrencyCode: "COP",
		Status:       domain.StatusCompleted,
	}
	suite.mockWorkflow.On("Decide", mock.Anything, "DEP1", domain.DecisionApprove, "op1").Return(resolved, nil).Once()
	newBalance := decimal.NewFromInt(600)
	suite.mockUser.On("GetUserByID", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Balance: newBalance}, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/admin/requests/DEP1/decision", suite.adminToken, gin.H{
		"decision": "approve",
	})

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.DecisionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.StatusCompleted, resp.Request.Status)
	suite.Require().NotNil(resp.NewBalance)
	suite.True(resp.NewBalance.Equal(newBalance))
}

func (suite *RequestHandlerTestSuite) TestDecide_AlreadyResolvedConflict() {
	suite.mockWorkflow.On("Decide", mock.Anything, "DEP1", domain.DecisionReject, "op1").
		Return(nil, fmt.Errorf("%w: request DEP1", apperrors.ErrAlreadyResolved)).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/admin/requests/DEP1/decision", suite.adminToken, gin.H{
		"decision": "reject",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *RequestHandlerTestSuite) TestDecide_InvalidDecisionValue() {
	w := suite.doJSON(http.MethodPost, "/api/v1/admin/requests/DEP1/decision", suite.adminToken, gin.H{
		"decision": "maybe",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *RequestHandlerTestSuite) TestListPlans() {
	suite.mockWorkflow.On("ListPlans", mock.Anything).Return([]domain.InvestmentPlan{
		{PlanID: "starter", Name: "Starter", DailyReturn: decimal.RequireFromString("1.5"), DurationDays: 30, MinAmount: decimal.NewFromInt(50)},
	}).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/investments/plans", suite.userToken, nil)

	suite.Equal(http.StatusOK, w.Code)

	var resp []dto.PlanResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("starter", resp[0].PlanID)
}

func TestRequestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RequestHandlerTestSuite))
}
