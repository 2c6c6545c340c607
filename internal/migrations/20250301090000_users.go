package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"noteshare/internal/repository/postgres"
)

func init() {
	addMigration(&migration{
		version: "20250301090000",
		name:    "users",
		up:      mig_20250301090000_users_up,
		down:    mig_20250301090000_users_down,
	})
}

func mig_20250301090000_users_up(ctx context.Context, tx pgx.Tx, t *postgres.TableNames) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(254) NOT NULL,
			name VARCHAR(100) NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT %[1]s_email_lower CHECK (email = LOWER(email))
		);
		CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_email_key ON %[1]s (email);
	`, t.Users))
	return err
}

func mig_20250301090000_users_down(ctx context.Context, tx pgx.Tx, t *postgres.TableNames) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, t.Users))
	return err
}
