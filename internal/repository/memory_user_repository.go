package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/tourism-auth/internal/domain"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMemoryUserRepository returns a process-local store with the same
// uniqueness and compare-and-swap rules as the Postgres implementation.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return ErrDuplicate
		}
	}
	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicate
	}

	now := time.Now().UTC()
	user.Version = 1
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok || stored.Version != user.Version {
		return ErrStaleWrite
	}

	next := cloneUser(user)
	next.Username = stored.Username
	next.Email = stored.Email
	next.Role = stored.Role
	next.Status = stored.Status
	next.Profile = stored.Profile
	next.GuideData = stored.GuideData
	next.CreatedAt = stored.CreatedAt
	next.Version = stored.Version + 1
	next.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = next

	user.Version = next.Version
	user.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) GetByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username || u.Email == email })
}

func (r *memoryUserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.ResetCode = clonePtr(u.ResetCode)
	c.ResetCodeExpiry = clonePtr(u.ResetCodeExpiry)
	c.RefreshToken = clonePtr(u.RefreshToken)
	c.RefreshTokenExpiry = clonePtr(u.RefreshTokenExpiry)
	if u.GuideData != nil {
		gd := *u.GuideData
		gd.Languages = append([]string(nil), u.GuideData.Languages...)
		c.GuideData = &gd
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
