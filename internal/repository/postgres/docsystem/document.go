package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	"noteshare/internal/domain"
	models "noteshare/internal/domain/models/docsystem"
	docsysRepo "noteshare/internal/domain/repositories/docsystem"

	"noteshare/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) docsysRepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, content, owner_id, word_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.Title,
		doc.Content,
		doc.OwnerID,
		doc.WordCount,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("owner %d: %w", doc.OwnerID, domain.ErrNotFound)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, title, content, owner_id, word_count, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate retrieves a document and locks its row for the rest of the transaction.
// Concurrent mutations of the same document queue behind the lock; after a
// concurrent delete commits, the waiting caller sees no row.
func (r *PostgresDocumentRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Document, error) {
	if !postgres.InTx(ctx) {
		r.logger.Warn("GetByIDForUpdate called outside a transaction; row lock is released immediately", "document_id", id)
	}

	query := fmt.Sprintf(`
		SELECT id, title, content, owner_id, word_count, created_at, updated_at
		FROM %s
		WHERE id = $1
		FOR UPDATE
	`, r.tables.Documents)

	return r.getOne(ctx, query, id)
}

func (r *PostgresDocumentRepository) getOne(ctx context.Context, query string, id int64) (*models.Document, error) {
	var doc models.Document
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.OwnerID,
		&doc.WordCount,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// ListAccessible returns owned and shared documents for a user.
// A user is never both owner and collaborator of the same document, but the
// query deduplicates by id anyway so a stray grant row cannot duplicate a result.
func (r *PostgresDocumentRepository) ListAccessible(ctx context.Context, userID int64) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT d.id, d.title, d.content, d.owner_id, d.word_count, d.created_at, d.updated_at,
		       CASE
		           WHEN d.owner_id = $1 THEN 'owner'
		           ELSE COALESCE(MAX(c.permission_level), 'none')
		       END AS access
		FROM %s d
		LEFT JOIN %s c ON c.document_id = d.id AND c.user_id = $1
		WHERE d.owner_id = $1 OR c.user_id IS NOT NULL
		GROUP BY d.id
		ORDER BY d.updated_at DESC, d.id ASC
	`, r.tables.Documents, r.tables.Collaborators)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Document, error) {
		var doc models.Document
		var access string
		err := row.Scan(
			&doc.ID,
			&doc.Title,
			&doc.Content,
			&doc.OwnerID,
			&doc.WordCount,
			&doc.CreatedAt,
			&doc.UpdatedAt,
			&access,
		)
		doc.Access = models.AccessLevel(access)
		return doc, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}

	// Return empty slice instead of nil if no documents
	if docs == nil {
		docs = []models.Document{}
	}

	return docs, nil
}

// Update updates an existing document
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content = $2, word_count = $3, updated_at = $4
		WHERE id = $5
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Title,
		doc.Content,
		doc.WordCount,
		doc.UpdatedAt,
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %d: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete hard-deletes a document. Collaborator rows go with it through the
// ON DELETE CASCADE foreign key.
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
