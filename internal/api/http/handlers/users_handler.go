package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tourism-auth/internal/api/dto"
	"github.com/spec-kit/tourism-auth/internal/auth"
	apperrors "github.com/spec-kit/tourism-auth/pkg/util"
)

// UsersHandler serves endpoints for the authenticated account.
type UsersHandler struct{}

// NewUsersHandler constructs handler.
func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

// Me handles GET /api/v1/users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token attached to the header")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}
