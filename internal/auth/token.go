package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/tourism-auth/internal/domain"
)

var (
	// ErrTokenExpired reports a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers bad signatures, malformed payloads and wrong token types.
	ErrTokenInvalid = errors.New("token is invalid")
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// TokenConfig carries signing secrets and lifetimes.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(cfg TokenConfig) *TokenManager {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 72 * time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.AccessSecret
	}
	return &TokenManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// Claims describes the JWT payload. Role is empty on refresh tokens.
type Claims struct {
	ID   string           `json:"id"`
	Role domain.Role      `json:"role,omitempty"`
	Type domain.TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// IssueAccess signs an access token carrying the user id and role.
func (tm *TokenManager) IssueAccess(userID string, role domain.Role) (string, time.Time, error) {
	return tm.sign(tm.accessSecret, &Claims{ID: userID, Role: role, Type: domain.TokenTypeAccess}, tm.accessTTL)
}

// IssueRefresh signs a refresh token carrying only the user id.
func (tm *TokenManager) IssueRefresh(userID string) (string, time.Time, error) {
	return tm.sign(tm.refreshSecret, &Claims{ID: userID, Type: domain.TokenTypeRefresh}, tm.refreshTTL)
}

// VerifyAccess validates an access token. Every failure is ErrTokenInvalid.
func (tm *TokenManager) VerifyAccess(tokenStr string) (*Claims, error) {
	claims, err := tm.parse(tm.accessSecret, tokenStr, domain.TokenTypeAccess)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token, separating expiry from other failures.
func (tm *TokenManager) VerifyRefresh(tokenStr string) (*Claims, error) {
	return tm.parse(tm.refreshSecret, tokenStr, domain.TokenTypeRefresh)
}

func (tm *TokenManager) sign(secret []byte, claims *Claims, ttl time.Duration) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.ID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing %s token: %w", claims.Type, err)
	}
	return tokenString, expiresAt, nil
}

func (tm *TokenManager) parse(secret []byte, tokenStr string, want domain.TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" || claims.Type != want {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
