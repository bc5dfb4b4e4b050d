package dto

import (
	"time"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterRequest defines the data needed to create a new account.
// Country is any ISO 3166-1 alpha-2 code; the bonus policy decides whether
// it is entitled to a welcome credit.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpwd"`
	FullName string `json:"fullName" binding:"required"`
	Country  string `json:"country" binding:"required,len=2,uppercase"`
}

// LoginRequest defines the credentials for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse defines the data returned for a user profile.
type UserResponse struct {
	UserID               string          `json:"userID"`
	Username             string          `json:"username"`
	Email                string          `json:"email"`
	FullName             string          `json:"fullName"`
	Country              string          `json:"country"`
	Role                 domain.UserRole `json:"role"`
	Balance              decimal.Decimal `json:"balance"`
	CurrencyCode         string          `json:"currencyCode"`
	WelcomeBonusCredited bool            `json:"welcomeBonusCredited"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// AuthResponse bundles a token with the authenticated user's profile.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// ToUserResponse converts a domain.User to a UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:               u.UserID,
		Username:             u.Username,
		Email:                u.Email,
		FullName:             u.FullName,
		Country:              u.Country,
		Role:                 u.Role,
		Balance:              u.Balance,
		CurrencyCode:         u.CurrencyCode,
		WelcomeBonusCredited: u.WelcomeBonusCredited,
		CreatedAt:            u.CreatedAt,
	}
}
