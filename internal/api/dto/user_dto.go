package dto

import (
	"time"

	"github.com/spec-kit/tourism-auth/internal/domain"
)

// SignupRequest payload for new accounts. Guide accounts carry company data.
type SignupRequest struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,containsany=0123456789"`
	Guide       bool   `json:"guide"`
	CompanyName string `json:"company_name" validate:"omitempty,max=200"`
	Nationality string `json:"nationality" validate:"omitempty,max=100"`
}

// VerifyRequest payload for email verification.
type VerifyRequest struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verificationCode" validate:"required"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EmailRequest payload for endpoints keyed only by email.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest payload for completing a password reset.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	ResetCode   string `json:"resetCode" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,containsany=0123456789"`
}

// RefreshRequest payload for access-token refresh. Emptiness is reported by
// the service with its own message.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// MessageResponse is the body of endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	UserID       string      `json:"userId"`
	UserRole     domain.Role `json:"userRole"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

// RefreshResponse carries a new access token.
type RefreshResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string            `json:"id"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	Role      domain.Role       `json:"role"`
	Status    domain.UserStatus `json:"status"`
	Verified  bool              `json:"verified"`
	Profile   domain.Profile    `json:"profile"`
	GuideData *domain.GuideData `json:"guide_data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		Verified:  u.Verified,
		Profile:   u.Profile,
		GuideData: u.GuideData,
		CreatedAt: u.CreatedAt,
	}
}
