package domain

import (
	"crypto/subtle"
	"time"
)

// Role is fixed at signup.
type Role string

const (
	RoleTourist Role = "tourist"
	RoleGuide   Role = "guide"
	RoleAdmin   Role = "admin"
)

// UserStatus represents administrative account states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusBlocked  UserStatus = "blocked"
	UserStatusInactive UserStatus = "inactive"
)

// Profile is the public-facing part of an account.
type Profile struct {
	FullName       *string `json:"full_name"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profile_picture"`
}

// GuideData is only populated for guides.
type GuideData struct {
	CompanyName string   `json:"company_name,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	Rating      float64  `json:"rating"`
	Verified    bool     `json:"verified"`
}

// User is the credential record for one account.
//
// ResetCode and ResetCodeExpiry are set and cleared together; the code serves
// both email verification and password reset. RefreshToken holds the single
// currently valid refresh token, if any. Version is the optimistic
// concurrency counter checked on every update.
type User struct {
	ID                 string
	Username           string
	Email              string
	Role               Role
	Status             UserStatus
	Verified           bool
	PasswordHash       string
	ResetCode          *string
	ResetCodeExpiry    *time.Time
	RefreshToken       *string
	RefreshTokenExpiry *time.Time
	Profile            Profile
	GuideData          *GuideData
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SetCode records an outstanding single-use code with its expiry.
func (u *User) SetCode(code string, expiresAt time.Time) {
	u.ResetCode = &code
	u.ResetCodeExpiry = &expiresAt
}

// ClearCode consumes the outstanding code.
func (u *User) ClearCode() {
	u.ResetCode = nil
	u.ResetCodeExpiry = nil
}

// CodeMatches reports whether code equals the outstanding code and has not
// expired at now. The comparison is constant-time.
func (u *User) CodeMatches(code string, now time.Time) bool {
	if u.ResetCode == nil || u.ResetCodeExpiry == nil || code == "" {
		return false
	}
	if now.After(*u.ResetCodeExpiry) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*u.ResetCode), []byte(code)) == 1
}

// SetRefreshToken replaces any previously stored refresh token.
func (u *User) SetRefreshToken(token string, expiresAt time.Time) {
	u.RefreshToken = &token
	u.RefreshTokenExpiry = &expiresAt
}

// RefreshTokenMatches reports an exact match with the stored refresh token.
func (u *User) RefreshTokenMatches(token string) bool {
	if u.RefreshToken == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*u.RefreshToken), []byte(token)) == 1
}

// RefreshTokenExpired reports whether the stored expiry, when set, has passed.
func (u *User) RefreshTokenExpired(now time.Time) bool {
	return u.RefreshTokenExpiry != nil && now.After(*u.RefreshTokenExpiry)
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}
