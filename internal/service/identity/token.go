package identity

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"noteshare/internal/domain/models"
	"noteshare/internal/domain/services"
)

// HMACTokenIssuer signs HS256 session tokens
type HMACTokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACTokenIssuer creates an issuer. The same secret must be given to the verifier.
func NewHMACTokenIssuer(secret, issuer string, ttl time.Duration) *HMACTokenIssuer {
	return &HMACTokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue mints a token whose subject is the numeric user ID
func (i *HMACTokenIssuer) Issue(user *models.User) (*services.IssuedToken, error) {
	now := i.now().UTC()
	exp := now.Add(i.ttl)

	claims := models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: user.Email,
		Name:  user.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &services.IssuedToken{Token: signed, ExpiresAt: exp}, nil
}
