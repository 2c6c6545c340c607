package memory

import (
	"context"
	"fmt"
	"sort"

	"noteshare/internal/domain"
	docmodels "noteshare/internal/domain/models/docsystem"
	docsysRepo "noteshare/internal/domain/repositories/docsystem"
)

// DocumentRepository implements docsystem.DocumentRepository over a Store
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository creates a document repository backed by store
func NewDocumentRepository(store *Store) docsysRepo.DocumentRepository {
	return &DocumentRepository{store: store}
}

// Create inserts a document. The owner must exist.
func (r *DocumentRepository) Create(ctx context.Context, doc *docmodels.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[doc.OwnerID]; !ok {
		return fmt.Errorf("owner %d: %w", doc.OwnerID, domain.ErrNotFound)
	}

	r.store.nextDocID++
	doc.ID = r.store.nextDocID
	stored := *doc
	stored.Access = ""
	r.store.docs[doc.ID] = stored
	return nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*docmodels.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doc, ok := r.store.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	return &doc, nil
}

// GetByIDForUpdate is GetByID; transactions on a Store are already serialized
func (r *DocumentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*docmodels.Document, error) {
	return r.GetByID(ctx, id)
}

// ListAccessible returns owned and shared documents, newest update first
func (r *DocumentRepository) ListAccessible(ctx context.Context, userID int64) ([]docmodels.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	docs := []docmodels.Document{}
	for _, doc := range r.store.docs {
		switch {
		case doc.OwnerID == userID:
			doc.Access = docmodels.AccessOwner
		default:
			grant, ok := r.store.collabs[collabKey{documentID: doc.ID, userID: userID}]
			if !ok {
				continue
			}
			doc.Access = docmodels.AccessLevel(grant.PermissionLevel)
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
		}
		return docs[i].ID < docs[j].ID
	})

	return docs, nil
}

// Update writes title, content, word count and updated_at
func (r *DocumentRepository) Update(ctx context.Context, doc *docmodels.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.docs[doc.ID]
	if !ok {
		return fmt.Errorf("document %d: %w", doc.ID, domain.ErrNotFound)
	}

	stored.Title = doc.Title
	stored.Content = doc.Content
	stored.WordCount = doc.WordCount
	stored.UpdatedAt = doc.UpdatedAt
	r.store.docs[doc.ID] = stored
	return nil
}

// Delete removes a document and, like the foreign key cascade, its grants
func (r *DocumentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.docs[id]; !ok {
		return false, nil
	}

	delete(r.store.docs, id)
	for key := range r.store.collabs {
		if key.documentID == id {
			delete(r.store.collabs, key)
		}
	}
	return true, nil
}
