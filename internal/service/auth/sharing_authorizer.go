package auth

import (
	"context"
	"errors"
	"fmt"

	"noteshare/internal/domain"
	models "noteshare/internal/domain/models/docsystem"
	docsysRepo "noteshare/internal/domain/repositories/docsystem"
	"noteshare/internal/domain/services"
)

// SharingAuthorizer implements DocumentAuthorizer over ownership plus the
// collaborator list. It only loads state; the decision is made by the pure
// predicates in access.go.
type SharingAuthorizer struct {
	docRepo    docsysRepo.DocumentRepository
	collabRepo docsysRepo.CollaboratorRepository
}

// NewSharingAuthorizer creates a new sharing-aware authorizer
func NewSharingAuthorizer(
	docRepo docsysRepo.DocumentRepository,
	collabRepo docsysRepo.CollaboratorRepository,
) *SharingAuthorizer {
	return &SharingAuthorizer{
		docRepo:    docRepo,
		collabRepo: collabRepo,
	}
}

// Authorize loads the document (row-locked when lock is set) and the
// requester's grant, then evaluates the predicate for action.
func (a *SharingAuthorizer) Authorize(ctx context.Context, action services.Action, documentID, requesterID int64, lock bool) (*models.Document, *models.Collaborator, error) {
	doc, grant, err := a.load(ctx, documentID, requesterID, lock)
	if err != nil {
		return nil, nil, err
	}

	if !Authorize(action, doc, grant, requesterID) {
		return nil, nil, fmt.Errorf("%s access denied to document %d: %w", action, documentID, domain.ErrForbidden)
	}

	return doc, grant, nil
}

func (a *SharingAuthorizer) load(ctx context.Context, documentID, requesterID int64, lock bool) (*models.Document, *models.Collaborator, error) {
	var (
		doc *models.Document
		err error
	)
	if lock {
		doc, err = a.docRepo.GetByIDForUpdate(ctx, documentID)
	} else {
		doc, err = a.docRepo.GetByID(ctx, documentID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get document for auth: %w", err)
	}

	// Owners never have a grant row; skip the lookup
	if doc.OwnerID == requesterID {
		return doc, nil, nil
	}

	grant, err := a.collabRepo.Get(ctx, documentID, requesterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return doc, nil, nil
		}
		return nil, nil, fmt.Errorf("get grant for auth: %w", err)
	}

	return doc, grant, nil
}
