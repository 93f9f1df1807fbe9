package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tourism-auth/internal/domain"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when the email or username is already taken.
	ErrDuplicate = errors.New("user already exists")
	// ErrStaleWrite is returned when the row changed since it was read.
	ErrStaleWrite = errors.New("user was modified concurrently")
)

const uniqueViolation = "23505"

// UserRepository defines persistence access for user accounts.
//
// Update is a compare-and-swap on User.Version: it only succeeds when the
// stored version still equals the one read, and bumps it on success.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `
        id, username, email, role, status, verified, password_hash,
        reset_code, reset_code_expiry, refresh_token, refresh_token_expiry,
        full_name, bio, profile_picture, guide_data, version, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, username, email, role, status, verified, password_hash,
            reset_code, reset_code_expiry, guide_data)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING version, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.Status,
		user.Verified,
		user.PasswordHash,
		user.ResetCode,
		user.ResetCodeExpiry,
		user.GuideData,
	).Scan(&user.Version, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET verified=$1, password_hash=$2, reset_code=$3, reset_code_expiry=$4,
            refresh_token=$5, refresh_token_expiry=$6, version=version+1, updated_at=NOW()
        WHERE id=$7 AND version=$8
        RETURNING version, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Verified,
		user.PasswordHash,
		user.ResetCode,
		user.ResetCodeExpiry,
		user.RefreshToken,
		user.RefreshTokenExpiry,
		user.ID,
		user.Version,
	).Scan(&user.Version, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStaleWrite
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT`+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT`+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT`+userColumns+` FROM users WHERE username=$1 OR email=$2 LIMIT 1`, username, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.Status,
		&user.Verified,
		&user.PasswordHash,
		&user.ResetCode,
		&user.ResetCodeExpiry,
		&user.RefreshToken,
		&user.RefreshTokenExpiry,
		&user.Profile.FullName,
		&user.Profile.Bio,
		&user.Profile.ProfilePicture,
		&user.GuideData,
		&user.Version,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
