package dto

import (
	"time"

	"github.com/Maikoeliud/micro-savings-backend/internal/core/domain"
)

// CreateUserRequest defines the payload for registering a new user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"required,email"`
}

// UserResponse is the API representation of a user and their account.
type UserResponse struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AccountID string    `json:"accountId"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserDetailResponse is the API representation of a user lookup, where the
// balance is resolved separately from the user record.
type UserDetailResponse struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse maps a domain user and their account to the API shape.
func ToUserResponse(user *domain.User, account *domain.Account) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		AccountID: account.AccountID,
		Balance:   account.Balance.StringFixed(2),
		CreatedAt: user.CreatedAt,
	}
}
