package domain

// TokenType separates access from refresh tokens signed with the same secret.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// CodePurpose names why a code was issued.
type CodePurpose string

const (
	CodePurposeVerification  CodePurpose = "verification"
	CodePurposePasswordReset CodePurpose = "password_reset"
)
