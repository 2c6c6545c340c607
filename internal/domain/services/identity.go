package services

import (
	"context"
	"time"

	"noteshare/internal/domain/models"
)

// PasswordHasher hashes and verifies credentials. The hash is opaque to callers.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// IssuedToken is a signed session token and its expiry
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenIssuer mints session tokens for authenticated users
type TokenIssuer interface {
	Issue(user *models.User) (*IssuedToken, error)
}

// TokenVerifier resolves a bearer token into an identity.
// Returns domain.ErrUnauthorized for any invalid, expired or malformed token.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*models.AuthenticatedIdentity, error)

	// Close releases any resources held by the verifier
	Close() error
}

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// AccountService handles registration, login and account lookup
type AccountService interface {
	// Register creates an account and returns a session token
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)

	// Login verifies credentials and returns a session token.
	// Unknown email and wrong password both return domain.ErrUnauthorized.
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)

	// GetAccount returns the account for an authenticated identity
	GetAccount(ctx context.Context, userID int64) (*models.User, error)
}
