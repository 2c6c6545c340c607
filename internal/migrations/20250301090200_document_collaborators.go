package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"noteshare/internal/repository/postgres"
)

func init() {
	addMigration(&migration{
		version: "20250301090200",
		name:    "document_collaborators",
		up:      mig_20250301090200_document_collaborators_up,
		down:    mig_20250301090200_document_collaborators_down,
	})
}

func mig_20250301090200_document_collaborators_up(ctx context.Context, tx pgx.Tx, t *postgres.TableNames) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			document_id BIGINT NOT NULL REFERENCES %[2]s (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES %[3]s (id) ON DELETE CASCADE,
			permission_level VARCHAR(10) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (document_id, user_id),
			CONSTRAINT %[1]s_permission_level_check CHECK (permission_level IN ('read', 'write'))
		);
		CREATE INDEX IF NOT EXISTS %[1]s_user_idx ON %[1]s (user_id);
	`, t.Collaborators, t.Documents, t.Users))
	return err
}

func mig_20250301090200_document_collaborators_down(ctx context.Context, tx pgx.Tx, t *postgres.TableNames) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Collaborators))
	return err
}
