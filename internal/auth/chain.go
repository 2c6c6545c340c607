package auth

import (
	"errors"

	"noteshare/internal/domain"
	"noteshare/internal/domain/models"
	"noteshare/internal/domain/services"
)

// ChainVerifier accepts a token if any of its verifiers does, in order.
// Used when self-issued session tokens and an external IdP are both enabled.
type ChainVerifier struct {
	verifiers []services.TokenVerifier
}

// NewChainVerifier creates a verifier over verifiers; nil entries are skipped
func NewChainVerifier(verifiers ...services.TokenVerifier) services.TokenVerifier {
	chain := &ChainVerifier{}
	for _, v := range verifiers {
		if v != nil {
			chain.verifiers = append(chain.verifiers, v)
		}
	}
	if len(chain.verifiers) == 1 {
		return chain.verifiers[0]
	}
	return chain
}

// VerifyToken returns the first identity any verifier produces
func (c *ChainVerifier) VerifyToken(tokenString string) (*models.AuthenticatedIdentity, error) {
	for _, v := range c.verifiers {
		if identity, err := v.VerifyToken(tokenString); err == nil {
			return identity, nil
		}
	}
	return nil, domain.ErrUnauthorized
}

// Close closes every verifier
func (c *ChainVerifier) Close() error {
	var errs []error
	for _, v := range c.verifiers {
		errs = append(errs, v.Close())
	}
	return errors.Join(errs...)
}
