package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 72*time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Hour, cfg.Auth.CodeTTL)
	assert.Equal(t, "secret", cfg.Auth.RefreshSigningSecret())
	assert.Equal(t, "0.0.0.0:4000", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("REFRESH_TOKEN_EXPIRES_IN", "7d")
	t.Setenv("AUTH_CODE_TTL", "15m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CLIENT_URL", "https://isafari.app/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.CodeTTL)
	assert.Equal(t, "refresh-secret", cfg.Auth.RefreshSigningSecret())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "https://isafari.app", cfg.App.ClientURL)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsBadRefreshTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REFRESH_TOKEN_EXPIRES_IN", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_BcryptCost(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{
		JWTSecret:      "s",
		AccessTokenTTL: time.Hour,
		RefreshTTL:     time.Hour,
		CodeTTL:        time.Hour,
		BcryptCost:     40,
	}}
	assert.Error(t, cfg.Validate())

	cfg.Auth.BcryptCost = 10
	assert.NoError(t, cfg.Validate())
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"1d":  24 * time.Hour,
		"3d":  72 * time.Hour,
		"90m": 90 * time.Minute,
		"1h":  time.Hour,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDuration("xd")
	assert.Error(t, err)
}
