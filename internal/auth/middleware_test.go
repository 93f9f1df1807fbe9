package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/tourism-auth/internal/domain"
	"github.com/spec-kit/tourism-auth/internal/repository"
	apperrors "github.com/spec-kit/tourism-auth/pkg/util"
)

type middlewareFixture struct {
	app    *fiber.App
	tokens *TokenManager
	users  repository.UserRepository
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	tokens := NewTokenManager(TokenConfig{AccessSecret: "secret", AccessTTL: time.Hour})
	users := repository.NewMemoryUserRepository()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code, "message": de.Message}})
		},
	})
	mw := NewAuthMiddleware(tokens, users)
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.SendString(p.User.Username)
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/guide", mw.Handle, RequireGuide(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	return &middlewareFixture{app: app, tokens: tokens, users: users}
}

func (f *middlewareFixture) addUser(t *testing.T, id string, role domain.Role, status domain.UserStatus) string {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), &domain.User{
		ID:       id,
		Username: "user-" + id,
		Email:    id + "@x.com",
		Role:     role,
		Status:   status,
		Verified: true,
	}))
	tok, _, err := f.tokens.IssueAccess(id, role)
	require.NoError(t, err)
	return tok
}

func (f *middlewareFixture) get(t *testing.T, path, authz string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_AcceptsBearerToken(t *testing.T) {
	f := newMiddlewareFixture(t)
	tok := f.addUser(t, "u1", domain.RoleTourist, domain.UserStatusActive)

	resp := f.get(t, "/me", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	f := newMiddlewareFixture(t)
	blocked := f.addUser(t, "u2", domain.RoleTourist, domain.UserStatusBlocked)
	refresh, _, err := f.tokens.IssueRefresh("u2")
	require.NoError(t, err)
	ghost, _, err := f.tokens.IssueAccess("ghost", domain.RoleTourist)
	require.NoError(t, err)

	cases := []struct {
		name   string
		authz  string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"unknown user", "Bearer " + ghost, http.StatusNotFound},
		{"blocked user", "Bearer " + blocked, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.get(t, "/me", tc.authz)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	f := newMiddlewareFixture(t)
	tourist := f.addUser(t, "t1", domain.RoleTourist, domain.UserStatusActive)
	guide := f.addUser(t, "g1", domain.RoleGuide, domain.UserStatusActive)
	admin := f.addUser(t, "a1", domain.RoleAdmin, domain.UserStatusActive)

	assert.Equal(t, http.StatusForbidden, f.get(t, "/admin", "Bearer "+tourist).StatusCode)
	assert.Equal(t, http.StatusForbidden, f.get(t, "/admin", "Bearer "+guide).StatusCode)
	assert.Equal(t, http.StatusNoContent, f.get(t, "/admin", "Bearer "+admin).StatusCode)

	assert.Equal(t, http.StatusForbidden, f.get(t, "/guide", "Bearer "+tourist).StatusCode)
	assert.Equal(t, http.StatusNoContent, f.get(t, "/guide", "Bearer "+guide).StatusCode)
	assert.Equal(t, http.StatusForbidden, f.get(t, "/guide", "Bearer "+admin).StatusCode)

	resp := f.get(t, "/guide", "Bearer "+tourist)
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Unauthorized access. Only guides are allowed.", body.Error.Message)
}
