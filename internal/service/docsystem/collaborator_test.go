package docsystem

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteshare/internal/domain"
	docmodels "noteshare/internal/domain/models/docsystem"
	"noteshare/internal/domain/services"
	docsysSvc "noteshare/internal/domain/services/docsystem"
)

func TestAddOrUpdateCollaborator_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	x := env.user(t, "x@example.com")
	doc := env.document(t, owner.ID, "Plan", "")

	req := func() *docsysSvc.ShareRequest {
		return &docsysSvc.ShareRequest{UserID: x.ID, PermissionLevel: docmodels.PermissionWrite}
	}

	first, err := env.collabs.AddOrUpdateCollaborator(ctx, owner.ID, doc.ID, req())
	require.NoError(t, err)
	second, err := env.collabs.AddOrUpdateCollaborator(ctx, owner.ID, doc.ID, req())
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	collabs, err := env.collabs.ListCollaborators(ctx, owner.ID, doc.ID)
	require.NoError(t, err)
	require.Len(t, collabs, 1)
	assert.Equal(t, x.ID, collabs[0].UserID)
	assert.Equal(t, docmodels.PermissionWrite, collabs[0].PermissionLevel)
	assert.Equal(t, "x@example.com", collabs[0].Email)
}

func TestAddOrUpdateCollaborator_LastWriteWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	x := env.user(t, "x@example.com")
	doc := env.document(t, owner.ID, "Plan", "")

	env.share(t, owner.ID, doc.ID, x.ID, docmodels.PermissionWrite)
	env.share(t, owner.ID, doc.ID, x.ID, docmodels.PermissionRead)

	collabs, err := env.collabs.ListCollaborators(ctx, owner.ID, doc.ID)
	require.NoError(t, err)
	require.Len(t, collabs, 1)
	assert.Equal(t, docmodels.PermissionRead, collabs[0].PermissionLevel)
}

func TestAddOrUpdateCollaborator_ByEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	x := env.user(t, "x@example.com")
	doc := env.document(t, owner.ID, "Plan", "")

	collab, err := env.collabs.AddOrUpdateCollaborator(ctx, owner.ID, doc.ID, &docsysSvc.ShareRequest{
		Email:           "  X@Example.com ",
		PermissionLevel: docmodels.PermissionRead,
	})
	require.NoError(t, err)
	assert.Equal(t, x.ID, collab.UserID)
	assert.Equal(t, doc.ID, collab.DocumentID)
}

func TestAddOrUpdateCollaborator_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	writer := env.user(t, "writer@example.com")
	x := env.user(t, "x@example.com")
	doc := env.document(t, owner.ID, "Plan", "")
	env.share(t, owner.ID, doc.ID, writer.ID, docmodels.PermissionWrite)

	tests := []struct {
		name      string
		requester int64
		docID     int64
		req       docsysSvc.ShareRequest
		wantErr   error
	}{
		{"bad level", owner.ID, doc.ID, docsysSvc.ShareRequest{UserID: x.ID, PermissionLevel: "admin"}, domain.ErrValidation},
		{"missing level", owner.ID, doc.ID, docsysSvc.ShareRequest{UserID: x.ID}, domain.ErrValidation},
		{"no target", owner.ID, doc.ID, docsysSvc.ShareRequest{PermissionLevel: docmodels.PermissionRead}, domain.ErrValidation},
		{"both targets", owner.ID, doc.ID, docsysSvc.ShareRequest{UserID: x.ID, Email: "x@example.com", PermissionLevel: docmodels.PermissionRead}, domain.ErrValidation},
		{"malformed email", owner.ID, doc.ID, docsysSvc.ShareRequest{Email: "not-an-email", PermissionLevel: docmodels.PermissionRead}, domain.ErrValidation},
		{"owner as target", owner.ID, doc.ID, docsysSvc.ShareRequest{UserID: owner.ID, PermissionLevel: docmodels.PermissionRead}, domain.ErrValidation},
		{"unknown user", owner.ID, doc.ID, docsysSvc.ShareRequest{UserID: 999, PermissionLevel: docmodels.PermissionRead}, domain.ErrNotFound},
		{"unknown email", owner.ID, doc.ID, docsysSvc.ShareRequest{Email: "ghost@example.com", PermissionLevel: docmodels.PermissionRead}, domain.ErrNotFound},
		{"write collaborator cannot share", writer.ID, doc.ID, docsysSvc.ShareRequest{UserID: x.ID, PermissionLevel: docmodels.PermissionRead}, domain.ErrForbidden},
		{"stranger cannot share", x.ID, doc.ID, docsysSvc.ShareRequest{UserID: writer.ID, PermissionLevel: docmodels.PermissionRead}, domain.ErrForbidden},
		{"missing document", owner.ID, doc.ID + 100, docsysSvc.ShareRequest{UserID: x.ID, PermissionLevel: docmodels.PermissionRead}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.collabs.AddOrUpdateCollaborator(ctx, tt.requester, tt.docID, &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// None of the failures changed the grants
	collabs, err := env.collabs.ListCollaborators(ctx, owner.ID, doc.ID)
	require.NoError(t, err)
	require.Len(t, collabs, 1)
	assert.Equal(t, writer.ID, collabs[0].UserID)
}

// A stranger probing for accounts learns nothing: the document check comes first
func TestAddOrUpdateCollaborator_StrangerCannotProbeUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	stranger := env.user(t, "stranger@example.com")
	doc := env.document(t, owner.ID, "Plan", "")

	_, errKnown := env.collabs.AddOrUpdateCollaborator(ctx, stranger.ID, doc.ID, &docsysSvc.ShareRequest{
		Email: "owner@example.com", PermissionLevel: docmodels.PermissionRead,
	})
	_, errUnknown := env.collabs.AddOrUpdateCollaborator(ctx, stranger.ID, doc.ID, &docsysSvc.ShareRequest{
		Email: "ghost@example.com", PermissionLevel: docmodels.PermissionRead,
	})

	assert.ErrorIs(t, errKnown, domain.ErrForbidden)
	assert.ErrorIs(t, errUnknown, domain.ErrForbidden)
}

func TestRemoveCollaborator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	x := env.user(t, "x@example.com")
	doc := env.document(t, owner.ID, "Plan", "")
	env.share(t, owner.ID, doc.ID, x.ID, docmodels.PermissionRead)

	removed, err := env.collabs.RemoveCollaborator(ctx, owner.ID, doc.ID, x.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = env.collabs.RemoveCollaborator(ctx, owner.ID, doc.ID, x.ID)
	require.NoError(t, err)
	assert.False(t, removed, "removing twice is not an error")

	removed, err = env.collabs.RemoveCollaborator(ctx, owner.ID, doc.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, removed, "the owner has no grant to remove")
}

// A user with no relation to the document cannot change its grants
func TestScenario_StrangerCannotRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.user(t, "o@example.com")
	x := env.user(t, "x@example.com")
	y := env.user(t, "y@example.com")
	d := env.document(t, o.ID, "T", "C")
	env.share(t, o.ID, d.ID, x.ID, docmodels.PermissionRead)

	_, err := env.collabs.RemoveCollaborator(ctx, y.ID, d.ID, x.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Not even a write collaborator may remove others
	env.share(t, o.ID, d.ID, y.ID, docmodels.PermissionWrite)
	_, err = env.collabs.RemoveCollaborator(ctx, y.ID, d.ID, x.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	collabs, err := env.collabs.ListCollaborators(ctx, o.ID, d.ID)
	require.NoError(t, err)
	assert.Len(t, collabs, 2)
}

func TestListCollaborators_ReadersOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	reader := env.user(t, "reader@example.com")
	stranger := env.user(t, "stranger@example.com")
	doc := env.document(t, owner.ID, "Plan", "")
	env.share(t, owner.ID, doc.ID, reader.ID, docmodels.PermissionRead)

	collabs, err := env.collabs.ListCollaborators(ctx, reader.ID, doc.ID)
	require.NoError(t, err)
	assert.Len(t, collabs, 1)

	_, err = env.collabs.ListCollaborators(ctx, stranger.ID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCollaboratorEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	x := env.user(t, "x@example.com")
	doc := env.document(t, owner.ID, "Plan", "")

	env.share(t, owner.ID, doc.ID, x.ID, docmodels.PermissionWrite)
	_, err := env.collabs.RemoveCollaborator(ctx, owner.ID, doc.ID, x.ID)
	require.NoError(t, err)
	_, err = env.collabs.RemoveCollaborator(ctx, owner.ID, doc.ID, x.ID)
	require.NoError(t, err)

	events := env.publisher.published()
	require.Len(t, events, 2, "a no-op removal publishes nothing")

	assert.Equal(t, services.CollaboratorUpserted, events[0].Type)
	assert.Equal(t, doc.ID, events[0].DocumentID)
	assert.Equal(t, x.ID, events[0].UserID)
	assert.Equal(t, owner.ID, events[0].ActorID)
	assert.Equal(t, "write", events[0].PermissionLevel)

	assert.Equal(t, services.CollaboratorRemoved, events[1].Type)
}

func TestCollaboratorEvents_PublishFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker down")
	owner := env.user(t, "owner@example.com")
	x := env.user(t, "x@example.com")
	doc := env.document(t, owner.ID, "Plan", "")

	_, err := env.collabs.AddOrUpdateCollaborator(context.Background(), owner.ID, doc.ID, &docsysSvc.ShareRequest{
		UserID: x.ID, PermissionLevel: docmodels.PermissionRead,
	})
	assert.NoError(t, err)
}
