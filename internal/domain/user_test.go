package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_CodeLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	u := &User{}

	assert.False(t, u.CodeMatches("ABC123", now))

	u.SetCode("ABC123", now.Add(time.Hour))
	assert.True(t, u.CodeMatches("ABC123", now))
	assert.True(t, u.CodeMatches("ABC123", now.Add(time.Hour)))
	assert.False(t, u.CodeMatches("ABC124", now))
	assert.False(t, u.CodeMatches("", now))
	assert.False(t, u.CodeMatches("ABC123", now.Add(time.Hour+time.Second)))

	u.ClearCode()
	assert.Nil(t, u.ResetCode)
	assert.Nil(t, u.ResetCodeExpiry)
	assert.False(t, u.CodeMatches("ABC123", now))
}

func TestUser_RefreshToken(t *testing.T) {
	now := time.Now()
	u := &User{}

	assert.False(t, u.RefreshTokenMatches("t1"))
	assert.False(t, u.RefreshTokenExpired(now))

	u.SetRefreshToken("t1", now.Add(time.Minute))
	assert.True(t, u.RefreshTokenMatches("t1"))

	u.SetRefreshToken("t2", now.Add(-time.Minute))
	assert.False(t, u.RefreshTokenMatches("t1"))
	assert.True(t, u.RefreshTokenMatches("t2"))
	assert.True(t, u.RefreshTokenExpired(now))
}

func TestUser_IsActive(t *testing.T) {
	assert.True(t, (&User{}).IsActive())
	assert.True(t, (&User{Status: UserStatusActive}).IsActive())
	assert.False(t, (&User{Status: UserStatusBlocked}).IsActive())
}
