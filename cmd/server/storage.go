package main

import (
	"context"
	"fmt"
	"log/slog"

	"noteshare/internal/config"
	"noteshare/internal/domain"
	"noteshare/internal/domain/models"
	"noteshare/internal/domain/repositories"
	docsysRepo "noteshare/internal/domain/repositories/docsystem"
	"noteshare/internal/domain/services"
	"noteshare/internal/handler"
	"noteshare/internal/migrations"
	"noteshare/internal/repository/memory"
	"noteshare/internal/repository/postgres"
	postgresDocsys "noteshare/internal/repository/postgres/docsystem"
)

// storage is the set of repositories the services are built from
type storage struct {
	Users         repositories.UserRepository
	Documents     docsysRepo.DocumentRepository
	Collaborators docsysRepo.CollaboratorRepository
	TxManager     repositories.TransactionManager
	Pinger        handler.Pinger
	Close         func()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	if cfg.StorageDriver == "memory" {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &storage{
			Users:         memory.NewUserRepository(store),
			Documents:     memory.NewDocumentRepository(store),
			Collaborators: memory.NewCollaboratorRepository(store),
			TxManager:     memory.NewTransactionManager(store),
			Close:         func() {},
		}, nil
	}

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return nil, err
	}

	stat := pool.Stat()
	logger.Info("database connected",
		"max_conns", stat.MaxConns(),
		"total_conns", stat.TotalConns(),
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	if cfg.AutoMigrate {
		migrator, err := migrations.NewMigrator(ctx, pool, tables, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		applied, err := migrator.Up(ctx, 0)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		logger.Info("migrations applied", "count", applied)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &storage{
		Users:         postgres.NewUserRepository(repoConfig),
		Documents:     postgresDocsys.NewDocumentRepository(repoConfig),
		Collaborators: postgresDocsys.NewCollaboratorRepository(repoConfig),
		TxManager: postgres.NewTransactionManager(pool, postgres.TxOptions{
			Timeout:      cfg.StorageTimeout,
			RetryBackoff: cfg.StorageRetryBackoff,
		}, logger),
		Pinger: pool,
		Close:  pool.Close,
	}, nil
}

// disabledIssuer refuses to mint tokens when sessions come from an external IdP
type disabledIssuer struct{}

func (disabledIssuer) Issue(*models.User) (*services.IssuedToken, error) {
	return nil, fmt.Errorf("%w: self-issued tokens are disabled; sign in through the identity provider", domain.ErrForbidden)
}
