package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/tourism-auth/internal/auth"
	"github.com/spec-kit/tourism-auth/internal/config"
	"github.com/spec-kit/tourism-auth/internal/domain"
	"github.com/spec-kit/tourism-auth/internal/events"
	"github.com/spec-kit/tourism-auth/internal/repository"
	apperrors "github.com/spec-kit/tourism-auth/pkg/util"
)

// Client-facing messages.
const (
	msgUserExists        = "User with this email or username already exists"
	msgUserNotFound      = "User not found"
	msgAlreadyVerified   = "User is already verified"
	msgBadVerifyCode     = "Invalid or expired verification code"
	msgBadCredentials    = "Invalid email or password"
	msgNotVerified       = "Please verify your email before logging in"
	msgVerifyBeforeReset = "Please verify your email before resetting the password"
	msgBadResetCode      = "Invalid or expired reset code"
	msgRefreshRequired   = "Refresh token is required"
	msgTokenExpired      = "Token has expired"
	msgTokenInvalid      = "Token is invalid"
	msgTokenMismatch     = "Token mismatch - unauthorized"
	msgRefreshExpired    = "Refresh token has expired"
	msgCodeCooldown      = "Please wait before requesting another code"
	msgConcurrentUpdate  = "The account was modified concurrently, please retry"
	msgPasswordTooLong   = "Password must be at most 72 bytes"
)

// SignupInput carries a new account request.
type SignupInput struct {
	Username    string
	Email       string
	Password    string
	Guide       bool
	CompanyName string
	Nationality string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	UserID                string
	Role                  domain.Role
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// RefreshResult carries a newly issued access token.
type RefreshResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

// AuthService runs the account lifecycle: signup, verification, login,
// password reset and access-token refresh.
type AuthService struct {
	users    repository.UserRepository
	throttle repository.CodeThrottle
	hasher   *auth.Hasher
	codes    *auth.CodeGenerator
	tokenMgr *auth.TokenManager
	events   events.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	CodeThrottle repository.CodeThrottle
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}
	return &AuthService{
		users:    deps.UserRepo,
		throttle: deps.CodeThrottle,
		hasher:   auth.NewHasher(cfg.Auth.BcryptCost),
		codes:    auth.NewCodeGenerator(cfg.Auth.CodeTTL),
		tokenMgr: auth.NewTokenManager(auth.TokenConfig{
			AccessSecret:  cfg.Auth.JWTSecret,
			RefreshSecret: cfg.Auth.RefreshSigningSecret(),
			AccessTTL:     cfg.Auth.AccessTokenTTL,
			RefreshTTL:    cfg.Auth.RefreshTTL,
		}),
		events: dispatcher,
		logger: logger,
		now:    time.Now,
	}
}

// Signup creates an unverified account and sends its verification code.
// The account is persisted before delivery; a failed delivery is recovered
// through ResendCode.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if _, err := s.users.GetByUsernameOrEmail(ctx, in.Username, in.Email); err == nil {
		return nil, apperrors.NewConflict(msgUserExists, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.internal("signup", err)
	}

	hash, err := s.hashPassword("signup", in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		Role:         domain.RoleTourist,
		Status:       domain.UserStatusActive,
		PasswordHash: hash,
	}
	if in.Guide {
		user.Role = domain.RoleGuide
		user.GuideData = &domain.GuideData{
			CompanyName: strings.TrimSpace(in.CompanyName),
			Nationality: strings.TrimSpace(in.Nationality),
		}
	}

	code, expiresAt, err := s.codes.Generate()
	if err != nil {
		return nil, s.internal("signup", err)
	}
	user.SetCode(code, expiresAt)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict(msgUserExists, nil)
		}
		return nil, s.internal("signup", err)
	}
	s.audit(ctx, events.EventUserRegistered, user.ID)

	if err := s.publishCode(ctx, events.EventVerificationCodeIssued, user); err != nil {
		return nil, s.internal("signup", err)
	}
	return user, nil
}

// Verify consumes the verification code and marks the account verified.
func (s *AuthService) Verify(ctx context.Context, email, code string) error {
	user, err := s.userByEmail(ctx, "verify", email, msgUserNotFound)
	if err != nil {
		return err
	}
	if user.Verified {
		return apperrors.NewValidationError(msgAlreadyVerified, nil)
	}
	if !user.CodeMatches(strings.TrimSpace(code), s.now()) {
		return apperrors.NewValidationError(msgBadVerifyCode, nil)
	}

	user.Verified = true
	user.ClearCode()
	if err := s.save(ctx, "verify", user); err != nil {
		return err
	}
	s.audit(ctx, events.EventUserVerified, user.ID)
	return nil
}

// Login checks credentials and issues an access token plus a refresh token
// that replaces any previously stored one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized(msgBadCredentials)
		}
		return nil, s.internal("login", err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, s.internal("login", err)
	}
	if !ok {
		return nil, apperrors.NewUnauthorized(msgBadCredentials)
	}
	if !user.Verified {
		return nil, apperrors.NewForbidden(msgNotVerified)
	}
	if !user.IsActive() {
		return nil, apperrors.NewForbidden(fmt.Sprintf("Account is %s", user.Status))
	}

	access, accessExp, err := s.tokenMgr.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, s.internal("login", err)
	}
	refresh, refreshExp, err := s.tokenMgr.IssueRefresh(user.ID)
	if err != nil {
		return nil, s.internal("login", err)
	}

	user.SetRefreshToken(refresh, refreshExp)
	if err := s.save(ctx, "login", user); err != nil {
		return nil, err
	}

	return &LoginResult{
		UserID:                user.ID,
		Role:                  user.Role,
		AccessToken:           access,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refresh,
		RefreshTokenExpiresAt: refreshExp,
	}, nil
}

// ForgotPassword issues a reset code to a verified account.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userByEmail(ctx, "forgot_password", email, msgUserNotFound)
	if err != nil {
		return err
	}
	if !user.Verified {
		return apperrors.NewValidationError(msgVerifyBeforeReset, nil)
	}
	return s.issueCode(ctx, "forgot_password", user, domain.CodePurposePasswordReset, events.EventResetCodeIssued)
}

// ResetPassword replaces the password hash when the reset code matches.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.userByEmail(ctx, "reset_password", email, msgUserNotFound)
	if err != nil {
		return err
	}
	if !user.CodeMatches(strings.TrimSpace(code), s.now()) {
		return apperrors.NewValidationError(msgBadResetCode, nil)
	}

	hash, err := s.hashPassword("reset_password", newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ClearCode()
	if err := s.save(ctx, "reset_password", user); err != nil {
		return err
	}
	s.audit(ctx, events.EventPasswordReset, user.ID)
	return nil
}

// ResendCode issues a fresh verification code, replacing any outstanding one.
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.userByEmail(ctx, "resend_code", email, fmt.Sprintf("User with email %s not found", email))
	if err != nil {
		return err
	}
	return s.issueCode(ctx, "resend_code", user, domain.CodePurposeVerification, events.EventVerificationCodeIssued)
}

// Refresh exchanges the stored refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apperrors.NewValidationError(msgRefreshRequired, nil)
	}

	claims, err := s.tokenMgr.VerifyRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.NewUnauthorized(msgTokenExpired)
		}
		return nil, apperrors.NewUnauthorized(msgTokenInvalid)
	}

	user, err := s.users.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(msgUserNotFound)
		}
		return nil, s.internal("refresh", err)
	}
	if !user.RefreshTokenMatches(refreshToken) {
		return nil, apperrors.NewForbidden(msgTokenMismatch)
	}
	if user.RefreshTokenExpired(s.now()) {
		s.logger.Info("refresh token expired", zap.String("user_id", user.ID))
		return nil, apperrors.NewUnauthorized(msgRefreshExpired)
	}

	access, exp, err := s.tokenMgr.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, s.internal("refresh", err)
	}
	return &RefreshResult{AccessToken: access, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// issueCode holds the cooldown slot only once the code has been stored and
// delivered; any failure after Acquire releases it.
func (s *AuthService) issueCode(ctx context.Context, op string, user *domain.User, purpose domain.CodePurpose, eventType events.EventType) (err error) {
	if s.throttle != nil {
		allowed, acqErr := s.throttle.Acquire(ctx, user.Email, purpose)
		switch {
		case acqErr != nil:
			s.logger.Warn("code throttle unavailable", zap.String("op", op), zap.Error(acqErr))
		case !allowed:
			return apperrors.NewRateLimited(msgCodeCooldown)
		default:
			defer func() {
				if err != nil {
					s.releaseThrottle(op, user.Email, purpose)
				}
			}()
		}
	}

	code, expiresAt, err := s.codes.Generate()
	if err != nil {
		return s.internal(op, err)
	}
	user.SetCode(code, expiresAt)
	if err := s.save(ctx, op, user); err != nil {
		return err
	}
	if err := s.publishCode(ctx, eventType, user); err != nil {
		return s.internal(op, err)
	}
	return nil
}

func (s *AuthService) releaseThrottle(op, email string, purpose domain.CodePurpose) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.throttle.Release(ctx, email, purpose); err != nil {
		s.logger.Warn("code throttle release failed", zap.String("op", op), zap.Error(err))
	}
}

func (s *AuthService) publishCode(ctx context.Context, eventType events.EventType, user *domain.User) error {
	payload := events.CodeIssuedPayload{
		Username:  user.Username,
		Email:     user.Email,
		Code:      *user.ResetCode,
		ExpiresAt: *user.ResetCodeExpiry,
	}
	return s.events.Publish(ctx, events.NewEvent(eventType, user.ID, payload))
}

func (s *AuthService) audit(ctx context.Context, eventType events.EventType, userID string) {
	if err := s.events.Publish(ctx, events.NewEvent(eventType, userID, nil)); err != nil {
		s.logger.Warn("audit event failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}

func (s *AuthService) hashPassword(op, password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError(msgPasswordTooLong, nil)
	}
	if err != nil {
		return "", s.internal(op, err)
	}
	return hash, nil
}

func (s *AuthService) userByEmail(ctx context.Context, op, email, notFound string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(notFound)
		}
		return nil, s.internal(op, err)
	}
	return user, nil
}

func (s *AuthService) save(ctx context.Context, op string, user *domain.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			s.logger.Warn("concurrent account update", zap.String("op", op), zap.String("user_id", user.ID))
			return apperrors.NewConflict(msgConcurrentUpdate, nil)
		}
		return s.internal(op, err)
	}
	return nil
}

func (s *AuthService) internal(op string, err error) error {
	s.logger.Error("auth operation failed", zap.String("op", op), zap.Error(err))
	return apperrors.NewInternalError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
