package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/tourism-auth/internal/domain"
)

func newTestManager() *TokenManager {
	return NewTokenManager(TokenConfig{
		AccessSecret: "access-secret",
		AccessTTL:    72 * time.Hour,
		RefreshTTL:   24 * time.Hour,
	})
}

func TestIssueAndVerifyAccess(t *testing.T) {
	tm := newTestManager()
	start := time.Now()

	tok, exp, err := tm.IssueAccess("user-1", domain.RoleGuide)
	require.NoError(t, err)
	assert.WithinDuration(t, start.Add(72*time.Hour), exp, 2*time.Second)

	claims, err := tm.VerifyAccess(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Equal(t, domain.RoleGuide, claims.Role)
	assert.Equal(t, domain.TokenTypeAccess, claims.Type)
}

func TestIssueAndVerifyRefresh(t *testing.T) {
	tm := newTestManager()

	tok, exp, err := tm.IssueRefresh("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 2*time.Second)

	claims, err := tm.VerifyRefresh(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.ID)
	assert.Empty(t, claims.Role)
}

func TestVerifyRefresh_Expired(t *testing.T) {
	tm := newTestManager()
	tm.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	tok, _, err := tm.IssueRefresh("user-1")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.VerifyRefresh(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = tm.VerifyAccess(mustAccess(t, tm, -100*time.Hour))
	assert.ErrorIs(t, err, ErrTokenInvalid, "access verification does not distinguish expiry")
}

func mustAccess(t *testing.T, tm *TokenManager, shift time.Duration) string {
	t.Helper()
	prev := tm.now
	tm.now = func() time.Time { return time.Now().Add(shift) }
	defer func() { tm.now = prev }()
	tok, _, err := tm.IssueAccess("user-1", domain.RoleTourist)
	require.NoError(t, err)
	return tok
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, _, err := newTestManager().IssueRefresh("user-1")
	require.NoError(t, err)

	other := NewTokenManager(TokenConfig{AccessSecret: "other-secret"})
	_, err = other.VerifyRefresh(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	tm := newTestManager()
	_, err := tm.VerifyRefresh("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = tm.VerifyAccess("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_RejectsWrongTokenType(t *testing.T) {
	tm := newTestManager()

	access, _, err := tm.IssueAccess("user-1", domain.RoleTourist)
	require.NoError(t, err)
	_, err = tm.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	refresh, _, err := tm.IssueRefresh("user-1")
	require.NoError(t, err)
	_, err = tm.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	tm := newTestManager()
	claims := &Claims{
		ID:   "user-1",
		Type: domain.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = tm.VerifyRefresh(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSeparateRefreshSecret(t *testing.T) {
	tm := NewTokenManager(TokenConfig{AccessSecret: "a", RefreshSecret: "r"})
	tok, _, err := tm.IssueRefresh("user-1")
	require.NoError(t, err)

	shared := NewTokenManager(TokenConfig{AccessSecret: "a"})
	_, err = shared.VerifyRefresh(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = tm.VerifyRefresh(tok)
	assert.NoError(t, err)
}
