package repositories

import (
	"context"

	"noteshare/internal/domain/models"
)

// UserRepository defines data access operations for user accounts
type UserRepository interface {
	// Create inserts a user. Returns a *domain.ConflictError if the email is taken.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID or returns domain.ErrNotFound
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail retrieves a user by (lower-cased) email or returns domain.ErrNotFound
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
