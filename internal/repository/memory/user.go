package memory

import (
	"context"
	"fmt"
	"strings"

	"noteshare/internal/domain"
	"noteshare/internal/domain/models"
	"noteshare/internal/domain/repositories"
)

// UserRepository implements repositories.UserRepository over a Store
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a user repository backed by store
func NewUserRepository(store *Store) repositories.UserRepository {
	return &UserRepository{store: store}
}

// Create inserts a user with a lower-cased, unique email
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range r.store.users {
		if existing.Email == email {
			return &domain.ConflictError{
				Message:      "an account with this email already exists",
				ResourceType: "user",
			}
		}
	}

	r.store.nextUserID++
	user.ID = r.store.nextUserID
	user.Email = email
	r.store.users[user.ID] = *user
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email (case-insensitive)
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.store.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}
