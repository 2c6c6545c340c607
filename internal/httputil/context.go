package httputil

import (
	"context"
	"net/http"

	"noteshare/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	identityKey contextKey = "identity"
)

// WithIdentity adds the authenticated identity to the request context
func WithIdentity(r *http.Request, identity *models.AuthenticatedIdentity) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, identity)
	return r.WithContext(ctx)
}

// GetIdentity retrieves the identity from context, returns nil if not found
func GetIdentity(r *http.Request) *models.AuthenticatedIdentity {
	identity, _ := r.Context().Value(identityKey).(*models.AuthenticatedIdentity)
	return identity
}

// GetUserID retrieves the authenticated user ID, returns 0 if not found
func GetUserID(r *http.Request) int64 {
	if identity := GetIdentity(r); identity != nil {
		return identity.UserID
	}
	return 0
}
