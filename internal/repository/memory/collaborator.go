package memory

import (
	"context"
	"fmt"
	"sort"

	"noteshare/internal/domain"
	docmodels "noteshare/internal/domain/models/docsystem"
	docsysRepo "noteshare/internal/domain/repositories/docsystem"
)

// CollaboratorRepository implements docsystem.CollaboratorRepository over a Store
type CollaboratorRepository struct {
	store *Store
}

// NewCollaboratorRepository creates a collaborator repository backed by store
func NewCollaboratorRepository(store *Store) docsysRepo.CollaboratorRepository {
	return &CollaboratorRepository{store: store}
}

// Get returns one grant with the user's email and name
func (r *CollaboratorRepository) Get(ctx context.Context, documentID, userID int64) (*docmodels.Collaborator, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	collab, ok := r.store.collabs[collabKey{documentID: documentID, userID: userID}]
	if !ok {
		return nil, fmt.Errorf("collaborator %d on document %d: %w", userID, documentID, domain.ErrNotFound)
	}
	r.join(&collab)
	return &collab, nil
}

// Upsert inserts a grant or overwrites its permission level, keeping created_at
func (r *CollaboratorRepository) Upsert(ctx context.Context, collab *docmodels.Collaborator) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.docs[collab.DocumentID]; !ok {
		return fmt.Errorf("document %d: %w", collab.DocumentID, domain.ErrNotFound)
	}
	if _, ok := r.store.users[collab.UserID]; !ok {
		return fmt.Errorf("user %d: %w", collab.UserID, domain.ErrNotFound)
	}
	if !collab.PermissionLevel.Valid() {
		return fmt.Errorf("permission level %q: %w", collab.PermissionLevel, domain.ErrValidation)
	}

	key := collabKey{documentID: collab.DocumentID, userID: collab.UserID}
	stored, exists := r.store.collabs[key]
	if exists {
		stored.PermissionLevel = collab.PermissionLevel
		stored.UpdatedAt = collab.UpdatedAt
	} else {
		stored = docmodels.Collaborator{
			DocumentID:      collab.DocumentID,
			UserID:          collab.UserID,
			PermissionLevel: collab.PermissionLevel,
			CreatedAt:       collab.CreatedAt,
			UpdatedAt:       collab.UpdatedAt,
		}
	}
	r.store.collabs[key] = stored

	r.join(&stored)
	*collab = stored
	return nil
}

// Delete removes one grant
func (r *CollaboratorRepository) Delete(ctx context.Context, documentID, userID int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := collabKey{documentID: documentID, userID: userID}
	if _, ok := r.store.collabs[key]; !ok {
		return false, nil
	}
	delete(r.store.collabs, key)
	return true, nil
}

// DeleteAllByDocument removes every grant of a document
func (r *CollaboratorRepository) DeleteAllByDocument(ctx context.Context, documentID int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var removed int64
	for key := range r.store.collabs {
		if key.documentID == documentID {
			delete(r.store.collabs, key)
			removed++
		}
	}
	return removed, nil
}

// ListByDocument lists grants ordered by created_at then user_id
func (r *CollaboratorRepository) ListByDocument(ctx context.Context, documentID int64) ([]docmodels.Collaborator, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	collabs := []docmodels.Collaborator{}
	for key, collab := range r.store.collabs {
		if key.documentID != documentID {
			continue
		}
		r.join(&collab)
		collabs = append(collabs, collab)
	}

	sort.Slice(collabs, func(i, j int) bool {
		if !collabs[i].CreatedAt.Equal(collabs[j].CreatedAt) {
			return collabs[i].CreatedAt.Before(collabs[j].CreatedAt)
		}
		return collabs[i].UserID < collabs[j].UserID
	})

	return collabs, nil
}

// join fills the user fields; callers hold store.mu
func (r *CollaboratorRepository) join(collab *docmodels.Collaborator) {
	if user, ok := r.store.users[collab.UserID]; ok {
		collab.Email = user.Email
		collab.Name = user.Name
	}
}
