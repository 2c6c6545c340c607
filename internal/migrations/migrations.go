// Package migrations versions the PostgreSQL schema. Each migration registers
// itself from an init func and runs inside the migrator's transaction.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"noteshare/internal/repository/postgres"
)

type migrationFunc func(ctx context.Context, tx pgx.Tx, t *postgres.TableNames) error

type migration struct {
	version string
	name    string
	up      migrationFunc
	down    migrationFunc
}

var registry = map[string]*migration{}

func addMigration(mg *migration) {
	if _, dup := registry[mg.version]; dup {
		panic(fmt.Sprintf("duplicate migration version %s", mg.version))
	}
	registry[mg.version] = mg
}

// Status is the state of one migration
type Status struct {
	Version string
	Name    string
	Applied bool
}

// Migrator applies registered migrations to the prefixed tables of one environment
type Migrator struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewMigrator creates a migrator and ensures the bookkeeping table exists
func NewMigrator(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, logger *slog.Logger) (*Migrator, error) {
	_, err := pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version VARCHAR(32) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, tables.SchemaMigrations))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", tables.SchemaMigrations, err)
	}

	return &Migrator{pool: pool, tables: tables, logger: logger}, nil
}

// Status lists every registered migration in version order
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var statuses []Status
	for _, v := range versions() {
		statuses = append(statuses, Status{
			Version: v,
			Name:    registry[v].name,
			Applied: applied[v],
		})
	}
	return statuses, nil
}

// Up applies pending migrations in version order; step > 0 limits how many.
// All of them run in one transaction.
func (m *Migrator) Up(ctx context.Context, step int) (int, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	var pending []*migration
	for _, v := range versions() {
		if !applied[v] {
			pending = append(pending, registry[v])
		}
	}
	if step > 0 && len(pending) > step {
		pending = pending[:step]
	}

	return len(pending), m.run(ctx, pending, "up")
}

// Down reverts applied migrations newest first; step > 0 limits how many
func (m *Migrator) Down(ctx context.Context, step int) (int, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	all := versions()
	var done []*migration
	for i := len(all) - 1; i >= 0; i-- {
		if applied[all[i]] {
			done = append(done, registry[all[i]])
		}
	}
	if step > 0 && len(done) > step {
		done = done[:step]
	}

	return len(done), m.run(ctx, done, "down")
}

func (m *Migrator) run(ctx context.Context, list []*migration, direction string) error {
	if len(list) == 0 {
		m.logger.Info("no migrations to run", "direction", direction)
		return nil
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			m.logger.Warn("migration rollback failed", "error", err)
		}
	}()

	for _, mg := range list {
		l := m.logger.With("version", mg.version, "name", mg.name, "direction", direction)
		l.Info("running migration")

		fn, record := mg.up, fmt.Sprintf(`INSERT INTO %s (version) VALUES ($1)`, m.tables.SchemaMigrations)
		if direction == "down" {
			fn, record = mg.down, fmt.Sprintf(`DELETE FROM %s WHERE version = $1`, m.tables.SchemaMigrations)
		}

		if err := fn(ctx, tx, m.tables); err != nil {
			return fmt.Errorf("migration %s %s: %w", mg.version, direction, err)
		}
		if _, err := tx.Exec(ctx, record, mg.version); err != nil {
			return fmt.Errorf("record migration %s: %w", mg.version, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}

	m.logger.Info("migrations finished", "direction", direction, "count", len(list))
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, fmt.Sprintf(`SELECT version FROM %s`, m.tables.SchemaMigrations))
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}

	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func versions() []string {
	vs := make([]string, 0, len(registry))
	for v := range registry {
		vs = append(vs, v)
	}
	sort.Strings(vs)
	return vs
}
