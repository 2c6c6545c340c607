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

// PostgresCollaboratorRepository implements the CollaboratorRepository interface
type PostgresCollaboratorRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewCollaboratorRepository creates a new collaborator repository
func NewCollaboratorRepository(config *postgres.RepositoryConfig) docsysRepo.CollaboratorRepository {
	return &PostgresCollaboratorRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Get retrieves a single grant
func (r *PostgresCollaboratorRepository) Get(ctx context.Context, documentID, userID int64) (*models.Collaborator, error) {
	query := fmt.Sprintf(`
		SELECT c.document_id, c.user_id, c.permission_level, u.email, u.name, c.created_at, c.updated_at
		FROM %s c
		JOIN %s u ON u.id = c.user_id
		WHERE c.document_id = $1 AND c.user_id = $2
	`, r.tables.Collaborators, r.tables.Users)

	executor := postgres.GetExecutor(ctx, r.pool)
	collab, err := scanCollaborator(executor.QueryRow(ctx, query, documentID, userID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("collaborator %d on document %d: %w", userID, documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get collaborator: %w", err)
	}

	return collab, nil
}

// Upsert inserts or overwrites a grant in one statement. Two concurrent upserts
// on the same pair both succeed and the later commit wins.
func (r *PostgresCollaboratorRepository) Upsert(ctx context.Context, collab *models.Collaborator) error {
	query := fmt.Sprintf(`
		WITH upserted AS (
			INSERT INTO %s (document_id, user_id, permission_level, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (document_id, user_id) DO UPDATE SET
				permission_level = EXCLUDED.permission_level,
				updated_at = EXCLUDED.updated_at
			RETURNING document_id, user_id, permission_level, created_at, updated_at
		)
		SELECT up.document_id, up.user_id, up.permission_level, u.email, u.name, up.created_at, up.updated_at
		FROM upserted up
		JOIN %s u ON u.id = up.user_id
	`, r.tables.Collaborators, r.tables.Users)

	executor := postgres.GetExecutor(ctx, r.pool)
	saved, err := scanCollaborator(executor.QueryRow(ctx, query,
		collab.DocumentID,
		collab.UserID,
		string(collab.PermissionLevel),
		collab.CreatedAt,
		collab.UpdatedAt,
	))
	if err != nil {
		switch {
		case postgres.IsPgForeignKeyError(err):
			return fmt.Errorf("document %d or user %d: %w", collab.DocumentID, collab.UserID, domain.ErrNotFound)
		case postgres.IsPgCheckViolation(err):
			return fmt.Errorf("permission level %q: %w", collab.PermissionLevel, domain.ErrValidation)
		}
		return fmt.Errorf("upsert collaborator: %w", err)
	}

	*collab = *saved
	return nil
}

// Delete removes one grant
func (r *PostgresCollaboratorRepository) Delete(ctx context.Context, documentID, userID int64) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1 AND user_id = $2
	`, r.tables.Collaborators)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, documentID, userID)
	if err != nil {
		return false, fmt.Errorf("delete collaborator: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteAllByDocument removes all grants of a document
func (r *PostgresCollaboratorRepository) DeleteAllByDocument(ctx context.Context, documentID int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.Collaborators)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, documentID)
	if err != nil {
		return 0, fmt.Errorf("delete collaborators: %w", err)
	}

	return result.RowsAffected(), nil
}

// ListByDocument lists the grants of a document with user email and name
func (r *PostgresCollaboratorRepository) ListByDocument(ctx context.Context, documentID int64) ([]models.Collaborator, error) {
	query := fmt.Sprintf(`
		SELECT c.document_id, c.user_id, c.permission_level, u.email, u.name, c.created_at, c.updated_at
		FROM %s c
		JOIN %s u ON u.id = c.user_id
		WHERE c.document_id = $1
		ORDER BY c.created_at ASC, c.user_id ASC
	`, r.tables.Collaborators, r.tables.Users)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	var collabs []models.Collaborator
	for rows.Next() {
		collab, err := scanCollaborator(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collaborator: %w", err)
		}
		collabs = append(collabs, *collab)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collaborators: %w", err)
	}

	if collabs == nil {
		collabs = []models.Collaborator{}
	}

	return collabs, nil
}

func scanCollaborator(row pgx.Row) (*models.Collaborator, error) {
	var collab models.Collaborator
	var level string
	err := row.Scan(
		&collab.DocumentID,
		&collab.UserID,
		&level,
		&collab.Email,
		&collab.Name,
		&collab.CreatedAt,
		&collab.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	collab.PermissionLevel = models.PermissionLevel(level)
	return &collab, nil
}
