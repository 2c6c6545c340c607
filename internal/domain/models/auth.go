package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// AuthenticatedIdentity is produced once per request by the token verifier and
// passed explicitly into every service call.
type AuthenticatedIdentity struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// TokenClaims is the JWT claims structure for session tokens.
// The subject claim carries the numeric user ID.
type TokenClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, exp, iat, ...)
	Email                string `json:"email"`
	Name                 string `json:"name,omitempty"`
}

// Identity converts validated claims into an AuthenticatedIdentity.
func (c *TokenClaims) Identity() (*AuthenticatedIdentity, error) {
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("invalid subject claim %q", c.Subject)
	}
	return &AuthenticatedIdentity{UserID: userID, Email: c.Email}, nil
}
