package auth

import (
	"errors"
	"log/slog"

	"noteshare/internal/domain"
	"noteshare/internal/domain/models"
	"noteshare/internal/domain/services"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier verifies the HS256 session tokens this service issues
type HMACVerifier struct {
	secret []byte
	issuer string
	logger *slog.Logger
}

// NewHMACVerifier creates a verifier for tokens signed with secret.
// A non-empty issuer must match the token's iss claim.
func NewHMACVerifier(secret, issuer string, logger *slog.Logger) (services.TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &HMACVerifier{secret: []byte(secret), issuer: issuer, logger: logger}, nil
}

// VerifyToken validates signature, expiry and issuer, then extracts the identity
func (v *HMACVerifier) VerifyToken(tokenString string) (*models.AuthenticatedIdentity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		v.logger.Debug("session token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	identity, err := claims.Identity()
	if err != nil {
		v.logger.Debug("session token has unusable subject", "error", err)
		return nil, domain.ErrUnauthorized
	}

	return identity, nil
}

// Close is a no-op; the verifier holds no resources
func (v *HMACVerifier) Close() error {
	return nil
}
