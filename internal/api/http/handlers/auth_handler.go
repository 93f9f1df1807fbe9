package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tourism-auth/internal/api/dto"
	"github.com/spec-kit/tourism-auth/internal/service"
)

// AuthHandler exposes the account lifecycle endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err := h.auth.Signup(c.UserContext(), service.SignupInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Guide:       req.Guide,
		CompanyName: req.CompanyName,
		Nationality: req.Nationality,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{
		Message: "User created successfully. Please check your email for verification.",
	})
}

// Verify handles POST /api/v1/auth/verify.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.Verify(c.UserContext(), req.Email, req.VerificationCode); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User verified successfully"})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		UserID:       res.UserID,
		UserRole:     res.Role,
		Token:        res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Reset code sent to your email"})
}

// ResetPassword handles POST /api/v1/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), req.Email, req.ResetCode, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset successfully"})
}

// ResendCode handles POST /api/v1/auth/resend-reset-code.
func (h *AuthHandler) ResendCode(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResendCode(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Verification code sent to your email"})
}

// Refresh handles POST /api/v1/auth/refresh-token.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(dto.RefreshResponse{Success: true, Token: res.AccessToken})
}
