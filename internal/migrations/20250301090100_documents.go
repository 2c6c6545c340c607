package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"noteshare/internal/repository/postgres"
)

func init() {
	addMigration(&migration{
		version: "20250301090100",
		name:    "documents",
		up:      mig_20250301090100_documents_up,
		down:    mig_20250301090100_documents_down,
	})
}

func mig_20250301090100_documents_up(ctx context.Context, tx pgx.Tx, t *postgres.TableNames) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			owner_id BIGINT NOT NULL REFERENCES %[2]s (id) ON DELETE CASCADE,
			word_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS %[1]s_owner_updated_idx ON %[1]s (owner_id, updated_at DESC);
	`, t.Documents, t.Users))
	return err
}

func mig_20250301090100_documents_down(ctx context.Context, tx pgx.Tx, t *postgres.TableNames) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Documents))
	return err
}
