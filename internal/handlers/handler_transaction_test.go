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

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	portssvc "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/services"
	"github.com/Maikoeliud/micro-savings-backend/internal/dto"
	"github.com/Maikoeliud/micro-savings-backend/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockLedgerService is a mock type for the LedgerSvcFacade interface
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, userID string, amount decimal.Decimal, idempotencyKey string) (*domain.Transaction, bool, error) {
	args := m.Called(ctx, userID, amount, idempotencyKey)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Bool(1), args.Error(2)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, idempotencyKey string) (*domain.Transaction, bool, error) {
	args := m.Called(ctx, userID, amount, idempotencyKey)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Bool(1), args.Error(2)
}

func (m *MockLedgerService) Transfer(ctx context.Context, fromUserID, toUserID string, amount decimal.Decimal, idempotencyKey string) (*domain.Transaction, bool, error) {
	args := m.Called(ctx, fromUserID, toUserID, amount, idempotencyKey)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Bool(1), args.Error(2)
}

func (m *MockLedgerService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

// MockUserService is a mock type for the UserSvcFacade interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, name, email string) (*domain.User, *domain.Account, error) {
	args := m.Called(ctx, name, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	var account *domain.Account
	if args.Get(1) != nil {
		account = args.Get(1).(*domain.Account)
	}
	return user, account, args.Error(2)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAuditService is a mock type for the AuditSvcFacade interface
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConsistencyReport), args.Error(1)
}

// --- Test Suite Setup ---

type TransactionHandlerTestSuite struct {
	suite.Suite
	mockLedger *MockLedgerService
	mockUser   *MockUserService
	mockAudit  *MockAuditService
	router     *gin.Engine
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockLedger = new(MockLedgerService)
	suite.mockUser = new(MockUserService)
	suite.mockAudit = new(MockAuditService)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &portssvc.ServiceContainer{
		User:   suite.mockUser,
		Ledger: suite.mockLedger,
		Audit:  suite.mockAudit,
	})
}

func (suite *TransactionHandlerTestSuite) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleTransaction(key string, txnType domain.TransactionType) *domain.Transaction {
	accountID := uuid.NewString()
	return &domain.Transaction{
		TransactionID:        key,
		Seq:                  1,
		Type:                 txnType,
		Amount:               decimal.RequireFromString("25.50"),
		DestinationAccountID: &accountID,
		Status:               domain.StatusSuccess,
		CreatedAt:            time.Now().UTC(),
	}
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestDeposit_FreshCommitReturns201() {
	key := uuid.NewString()
	userID := uuid.NewString()
	txn := sampleTransaction(key, domain.Deposit)

	suite.mockLedger.On("Deposit", mock.Anything, userID, mock.MatchedBy(func(amount decimal.Decimal) bool {
		return amount.Equal(decimal.RequireFromString("25.50"))
	}), key).Return(txn, false, nil).Once()

	w := suite.postJSON("/api/v1/transactions/deposit", dto.DepositRequest{
		TransactionID: key,
		UserID:        userID,
		Amount:        "25.50",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(key, resp.TransactionID)
	suite.Equal("25.50", resp.Amount)
	suite.False(resp.Replayed)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestDeposit_ReplayReturns200() {
	key := uuid.NewString()
	userID := uuid.NewString()
	txn := sampleTransaction(key, domain.Deposit)

	suite.mockLedger.On("Deposit", mock.Anything, userID, mock.Anything, key).Return(txn, true, nil).Once()

	w := suite.postJSON("/api/v1/transactions/deposit", dto.DepositRequest{
		TransactionID: key,
		UserID:        userID,
		Amount:        "25.50",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Replayed)
}

func (suite *TransactionHandlerTestSuite) TestDeposit_MalformedAmountReturns400() {
	w := suite.postJSON("/api/v1/transactions/deposit", dto.DepositRequest{
		TransactionID: uuid.NewString(),
		UserID:        uuid.NewString(),
		Amount:        "12.3.4",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "Deposit")
}

func (suite *TransactionHandlerTestSuite) TestDeposit_NonUUIDKeyReturns400() {
	w := suite.postJSON("/api/v1/transactions/deposit", dto.DepositRequest{
		TransactionID: "not-a-uuid",
		UserID:        uuid.NewString(),
		Amount:        "10.00",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "Deposit")
}

func (suite *TransactionHandlerTestSuite) TestWithdraw_InsufficientFundsReturns400() {
	key := uuid.NewString()
	userID := uuid.NewString()

	suite.mockLedger.On("Withdraw", mock.Anything, userID, mock.Anything, key).
		Return(nil, false, fmt.Errorf("%w: account cannot cover 50.00", apperrors.ErrInsufficientFunds)).Once()

	w := suite.postJSON("/api/v1/transactions/withdraw", dto.WithdrawRequest{
		TransactionID: key,
		UserID:        userID,
		Amount:        "50.00",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestTransfer_SelfTransferReturns400() {
	key := uuid.NewString()
	userID := uuid.NewString()

	suite.mockLedger.On("Transfer", mock.Anything, userID, userID, mock.Anything, key).
		Return(nil, false, fmt.Errorf("%w: user %s", apperrors.ErrSelfTransfer, userID)).Once()

	w := suite.postJSON("/api/v1/transactions/transfer", dto.TransferRequest{
		TransactionID: key,
		FromUserID:    userID,
		ToUserID:      userID,
		Amount:        "10.00",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestTransfer_UnknownUserReturns404() {
	key := uuid.NewString()
	fromUserID := uuid.NewString()
	toUserID := uuid.NewString()

	suite.mockLedger.On("Transfer", mock.Anything, fromUserID, toUserID, mock.Anything, key).
		Return(nil, false, fmt.Errorf("failed to resolve account: %w", apperrors.ErrNotFound)).Once()

	w := suite.postJSON("/api/v1/transactions/transfer", dto.TransferRequest{
		TransactionID: key,
		FromUserID:    fromUserID,
		ToUserID:      toUserID,
		Amount:        "10.00",
	})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestTransfer_LockTimeoutReturns409() {
	key := uuid.NewString()
	fromUserID := uuid.NewString()
	toUserID := uuid.NewString()

	suite.mockLedger.On("Transfer", mock.Anything, fromUserID, toUserID, mock.Anything, key).
		Return(nil, false, fmt.Errorf("transfer failed: %w", apperrors.ErrLockTimeout)).Once()

	w := suite.postJSON("/api/v1/transactions/transfer", dto.TransferRequest{
		TransactionID: key,
		FromUserID:    fromUserID,
		ToUserID:      toUserID,
		Amount:        "10.00",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestGetBalance() {
	userID := uuid.NewString()
	suite.mockLedger.On("GetBalance", mock.Anything, userID).
		Return(decimal.RequireFromString("123.45"), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/balance", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("123.45", resp.Balance)
	suite.Equal(userID, resp.UserID)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_PassesPaginationParams() {
	userID := uuid.NewString()
	token := "page-2"
	txn := sampleTransaction(uuid.NewString(), domain.Deposit)

	suite.mockLedger.On("ListTransactions", mock.Anything, userID, 5, (*string)(nil)).
		Return([]domain.Transaction{*txn}, &token, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/transactions?limit=5", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(token, *resp.NextToken)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers.RegisterRoutes(router, &portssvc.ServiceContainer{
		User:   new(MockUserService),
		Ledger: new(MockLedgerService),
		Audit:  new(MockAuditService),
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
