package docsystem

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"noteshare/internal/domain/models"
	docmodels "noteshare/internal/domain/models/docsystem"
	"noteshare/internal/domain/repositories"
	"noteshare/internal/domain/services"
	docsysSvc "noteshare/internal/domain/services/docsystem"
	"noteshare/internal/repository/memory"
	"noteshare/internal/service/auth"
	"noteshare/internal/service/docsystem/converter"
)

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []services.CollaboratorEvent
	err    error
}

func (p *recordingPublisher) PublishCollaboratorEvent(ctx context.Context, event services.CollaboratorEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []services.CollaboratorEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]services.CollaboratorEvent(nil), p.events...)
}

type testEnv struct {
	docs      docsysSvc.DocumentService
	collabs   docsysSvc.CollaboratorService
	export    docsysSvc.ExportService
	publisher *recordingPublisher
	userRepo  repositories.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	docRepo := memory.NewDocumentRepository(store)
	collabRepo := memory.NewCollaboratorRepository(store)
	txManager := memory.NewTransactionManager(store)
	authorizer := auth.NewSharingAuthorizer(docRepo, collabRepo)
	analyzer := NewContentAnalyzer()
	publisher := &recordingPublisher{}

	return &testEnv{
		docs:      NewDocumentService(docRepo, collabRepo, txManager, authorizer, analyzer, logger),
		collabs:   NewCollaboratorService(collabRepo, userRepo, txManager, authorizer, publisher, logger),
		export:    NewExportService(txManager, authorizer, converter.NewRendererRegistry(analyzer), logger),
		publisher: publisher,
		userRepo:  userRepo,
	}
}

func (e *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: email}
	require.NoError(t, e.userRepo.Create(context.Background(), u))
	return u
}

func (e *testEnv) document(t *testing.T, ownerID int64, title, content string) *docmodels.Document {
	t.Helper()
	doc, err := e.docs.CreateDocument(context.Background(), &docsysSvc.CreateDocumentRequest{
		OwnerID: ownerID,
		Title:   title,
		Content: content,
	})
	require.NoError(t, err)
	return doc
}

func (e *testEnv) share(t *testing.T, ownerID, documentID, targetID int64, level docmodels.PermissionLevel) {
	t.Helper()
	_, err := e.collabs.AddOrUpdateCollaborator(context.Background(), ownerID, documentID, &docsysSvc.ShareRequest{
		UserID:          targetID,
		PermissionLevel: level,
	})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }
