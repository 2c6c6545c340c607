package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"noteshare/internal/domain"
	"noteshare/internal/domain/models"
	"noteshare/internal/domain/services"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier verifies tokens minted by an external identity provider whose
// public keys are published as a JWKS. The provider's subject claim must be
// the numeric user ID.
type JWKSVerifier struct {
	jwks     keyfunc.Keyfunc
	issuer   string
	audience string
	cancel   context.CancelFunc
	logger   *slog.Logger
}

// JWKSConfig locates the key set and pins the claims tokens must carry.
// Empty Issuer or Audience disables that check.
type JWKSConfig struct {
	URL      string
	Issuer   string
	Audience string
}

// NewJWKSVerifier creates a verifier that fetches and caches keys from cfg.URL.
// keyfunc refreshes the key set in the background until Close is called.
func NewJWKSVerifier(cfg JWKSConfig, logger *slog.Logger) (services.TokenVerifier, error) {
	if cfg.URL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.URL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	v := newJWKSVerifier(jwks, cfg, logger)
	v.cancel = cancel
	logger.Info("JWKS token verifier initialized",
		"jwks_url", cfg.URL,
		"issuer", cfg.Issuer,
		"audience", cfg.Audience,
	)
	return v, nil
}

func newJWKSVerifier(jwks keyfunc.Keyfunc, cfg JWKSConfig, logger *slog.Logger) *JWKSVerifier {
	if cfg.Issuer == "" || cfg.Audience == "" {
		logger.Warn("JWKS verifier accepts any issuer or audience the key set signs for",
			"issuer", cfg.Issuer,
			"audience", cfg.Audience,
		)
	}
	return &JWKSVerifier{
		jwks:     jwks,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		cancel:   func() {},
		logger:   logger,
	}
}

func (v *JWKSVerifier) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		// Prevent algorithm confusion attacks
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	return opts
}

// VerifyToken validates the signature against the key set and extracts the identity
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.AuthenticatedIdentity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, v.jwks.Keyfunc, v.parserOptions()...)
	if err != nil || !token.Valid {
		v.logger.Debug("JWKS token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	identity, err := claims.Identity()
	if err != nil {
		v.logger.Debug("JWKS token has unusable subject", "error", err)
		return nil, domain.ErrUnauthorized
	}

	return identity, nil
}

// Close stops the background key refresh
func (v *JWKSVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWKS token verifier closed")
	return nil
}
