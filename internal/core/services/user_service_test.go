package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Maikoeliud/micro-savings-backend/internal/apperrors"
	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
	portssvc "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/services"
	"github.com/Maikoeliud/micro-savings-backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockUserRepository is a mock type for the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUserWithAccount(ctx context.Context, user domain.User, account domain.Account) error {
	args := m.Called(ctx, user, account)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite Setup ---

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()

	suite.mockRepo.On("CreateUserWithAccount", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Name == "Asha Mwangi" && user.Email == "asha@example.com" && user.UserID != ""
	}), mock.MatchedBy(func(account domain.Account) bool {
		return account.Balance.IsZero() && account.AccountID != ""
	})).Return(nil).Once()

	user, account, err := suite.service.CreateUser(ctx, "  Asha Mwangi  ", "asha@example.com")

	suite.Require().NoError(err)
	suite.Equal("Asha Mwangi", user.Name)
	suite.Equal(user.UserID, account.UserID)
	suite.True(account.Balance.IsZero())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_RejectsBlankFields() {
	ctx := context.Background()

	for _, tc := range []struct{ name, email string }{
		{"", "a@example.com"},
		{"   ", "a@example.com"},
		{"Asha", ""},
	} {
		_, _, err := suite.service.CreateUser(ctx, tc.name, tc.email)
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateUserWithAccount")
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	ctx := context.Background()

	suite.mockRepo.On("CreateUserWithAccount", ctx, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: user with email a@example.com already exists", apperrors.ErrDuplicate)).Once()

	_, _, err := suite.service.CreateUser(ctx, "Asha", "a@example.com")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
