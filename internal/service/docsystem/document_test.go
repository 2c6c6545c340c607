package docsystem

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteshare/internal/config"
	"noteshare/internal/domain"
	docmodels "noteshare/internal/domain/models/docsystem"
	docsysSvc "noteshare/internal/domain/services/docsystem"
)

func TestCreateDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")

	doc, err := env.docs.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
		OwnerID: owner.ID,
		Title:   "  Meeting notes  ",
		Content: "# Agenda\n\n- ship **it**",
	})
	require.NoError(t, err)

	assert.Equal(t, "Meeting notes", doc.Title)
	assert.Equal(t, owner.ID, doc.OwnerID)
	assert.Equal(t, docmodels.AccessOwner, doc.Access)
	assert.Equal(t, 3, doc.WordCount)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
}

func TestCreateDocument_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")

	tests := []struct {
		name    string
		req     docsysSvc.CreateDocumentRequest
		wantErr error
	}{
		{"missing title", docsysSvc.CreateDocumentRequest{OwnerID: owner.ID}, domain.ErrValidation},
		{"blank title", docsysSvc.CreateDocumentRequest{OwnerID: owner.ID, Title: "   "}, domain.ErrValidation},
		{"title too long", docsysSvc.CreateDocumentRequest{OwnerID: owner.ID, Title: strings.Repeat("a", config.MaxDocumentTitleLength+1)}, domain.ErrValidation},
		{"content too large", docsysSvc.CreateDocumentRequest{OwnerID: owner.ID, Title: "big", Content: strings.Repeat("a", config.MaxDocumentContentBytes+1)}, domain.ErrValidation},
		{"anonymous", docsysSvc.CreateDocumentRequest{Title: "x"}, domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.docs.CreateDocument(ctx, &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Title limit counts characters, not bytes
	_, err := env.docs.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
		OwnerID: owner.ID,
		Title:   strings.Repeat("é", config.MaxDocumentTitleLength),
	})
	assert.NoError(t, err)
}

func TestGetDocument_Access(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	reader := env.user(t, "reader@example.com")
	stranger := env.user(t, "stranger@example.com")

	doc := env.document(t, owner.ID, "Plan", "body")
	env.share(t, owner.ID, doc.ID, reader.ID, docmodels.PermissionRead)

	got, err := env.docs.GetDocument(ctx, owner.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, docmodels.AccessOwner, got.Access)

	got, err = env.docs.GetDocument(ctx, reader.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, docmodels.AccessRead, got.Access)
	assert.Equal(t, "body", got.Content)

	_, err = env.docs.GetDocument(ctx, stranger.ID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.docs.GetDocument(ctx, owner.ID, doc.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	reader := env.user(t, "reader@example.com")
	writer := env.user(t, "writer@example.com")

	doc := env.document(t, owner.ID, "Plan", "one two")
	env.share(t, owner.ID, doc.ID, reader.ID, docmodels.PermissionRead)
	env.share(t, owner.ID, doc.ID, writer.ID, docmodels.PermissionWrite)

	_, err := env.docs.UpdateDocument(ctx, reader.ID, doc.ID, &docsysSvc.UpdateDocumentRequest{Content: strPtr("nope")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	time.Sleep(time.Millisecond)
	updated, err := env.docs.UpdateDocument(ctx, writer.ID, doc.ID, &docsysSvc.UpdateDocumentRequest{Content: strPtr("one two three")})
	require.NoError(t, err)
	assert.Equal(t, "Plan", updated.Title, "absent fields are unchanged")
	assert.Equal(t, "one two three", updated.Content)
	assert.Equal(t, 3, updated.WordCount)
	assert.Equal(t, docmodels.AccessWrite, updated.Access)
	assert.Equal(t, owner.ID, updated.OwnerID)
	assert.True(t, updated.UpdatedAt.After(doc.UpdatedAt))

	_, err = env.docs.UpdateDocument(ctx, owner.ID, doc.ID, &docsysSvc.UpdateDocumentRequest{Title: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.docs.UpdateDocument(ctx, owner.ID, doc.ID+100, &docsysSvc.UpdateDocumentRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDocument_Cascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	writer := env.user(t, "writer@example.com")

	doc := env.document(t, owner.ID, "Plan", "")
	env.share(t, owner.ID, doc.ID, writer.ID, docmodels.PermissionWrite)

	_, err := env.docs.DeleteDocument(ctx, writer.ID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	deleted, err := env.docs.DeleteDocument(ctx, owner.ID, doc.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	for _, userID := range []int64{owner.ID, writer.ID} {
		_, err := env.docs.GetDocument(ctx, userID, doc.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}

	docs, err := env.docs.ListDocuments(ctx, writer.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)

	deleted, err = env.docs.DeleteDocument(ctx, owner.ID, doc.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListDocuments_OwnedAndShared(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice@example.com")
	bob := env.user(t, "bob@example.com")

	own := env.document(t, alice.ID, "Alice's", "")
	time.Sleep(time.Millisecond)
	shared := env.document(t, bob.ID, "Bob's shared", "")
	time.Sleep(time.Millisecond)
	env.document(t, bob.ID, "Bob's private", "")

	env.share(t, bob.ID, shared.ID, alice.ID, docmodels.PermissionRead)
	// Re-sharing must not duplicate the entry
	env.share(t, bob.ID, shared.ID, alice.ID, docmodels.PermissionWrite)

	docs, err := env.docs.ListDocuments(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, shared.ID, docs[0].ID)
	assert.Equal(t, docmodels.AccessWrite, docs[0].Access)
	assert.Equal(t, own.ID, docs[1].ID)
	assert.Equal(t, docmodels.AccessOwner, docs[1].Access)
}

func TestDuplicateDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com")
	reader := env.user(t, "reader@example.com")
	stranger := env.user(t, "stranger@example.com")

	doc := env.document(t, owner.ID, "Plan", "alpha beta")
	env.share(t, owner.ID, doc.ID, reader.ID, docmodels.PermissionRead)

	dup, err := env.docs.DuplicateDocument(ctx, reader.ID, doc.ID)
	require.NoError(t, err)
	assert.NotEqual(t, doc.ID, dup.ID)
	assert.Equal(t, "Plan (Copy)", dup.Title)
	assert.Equal(t, "alpha beta", dup.Content)
	assert.Equal(t, reader.ID, dup.OwnerID)
	assert.Equal(t, docmodels.AccessOwner, dup.Access)

	// Grants are not copied
	collabs, err := env.collabs.ListCollaborators(ctx, reader.ID, dup.ID)
	require.NoError(t, err)
	assert.Empty(t, collabs)

	_, err = env.docs.DuplicateDocument(ctx, stranger.ID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCopyTitle_FitsLimit(t *testing.T) {
	long := strings.Repeat("ü", config.MaxDocumentTitleLength)
	got := copyTitle(long)

	assert.True(t, strings.HasSuffix(got, config.CopyTitleSuffix))
	assert.Equal(t, config.MaxDocumentTitleLength, len([]rune(got)))
	assert.Equal(t, "Notes (Copy)", copyTitle("Notes"))
}

// Owner O shares with X, upgrades and finally removes X
func TestScenario_ShareUpgradeRevoke(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.user(t, "o@example.com")
	x := env.user(t, "x@example.com")

	d := env.document(t, o.ID, "T", "C")

	docs, err := env.docs.ListDocuments(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, d.ID, docs[0].ID)

	env.share(t, o.ID, d.ID, x.ID, docmodels.PermissionRead)

	_, err = env.docs.UpdateDocument(ctx, x.ID, d.ID, &docsysSvc.UpdateDocumentRequest{Content: strPtr("C2")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.docs.GetDocument(ctx, x.ID, d.ID)
	require.NoError(t, err)

	env.share(t, o.ID, d.ID, x.ID, docmodels.PermissionWrite)
	updated, err := env.docs.UpdateDocument(ctx, x.ID, d.ID, &docsysSvc.UpdateDocumentRequest{Content: strPtr("C2")})
	require.NoError(t, err)
	assert.Equal(t, "C2", updated.Content)

	removed, err := env.collabs.RemoveCollaborator(ctx, o.ID, d.ID, x.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = env.docs.GetDocument(ctx, x.ID, d.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
