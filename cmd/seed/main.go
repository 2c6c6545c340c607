package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"noteshare/internal/config"
	"noteshare/internal/domain"
	"noteshare/internal/domain/models"
	docmodels "noteshare/internal/domain/models/docsystem"
	"noteshare/internal/domain/repositories"
	docsysSvc "noteshare/internal/domain/services/docsystem"
	"noteshare/internal/events"
	"noteshare/internal/migrations"
	"noteshare/internal/repository/postgres"
	postgresDocsys "noteshare/internal/repository/postgres/docsystem"
	serviceAuth "noteshare/internal/service/auth"
	serviceDocsys "noteshare/internal/service/docsystem"
	"noteshare/internal/service/identity"

	"github.com/joho/godotenv"
)

// demoPassword is shared by every seeded account
const demoPassword = "noteshare-demo"

type seedUser struct {
	email string
	name  string
}

var seedUsers = []seedUser{
	{email: "alice@example.com", name: "Alice"},
	{email: "bob@example.com", name: "Bob"},
	{email: "carol@example.com", name: "Carol"},
}

type seedDocument struct {
	owner   string
	title   string
	content string
	shares  map[string]docmodels.PermissionLevel // email -> level
}

func getSeedDocuments() []seedDocument {
	return []seedDocument{
		{
			owner: "alice@example.com",
			title: "Team Handbook",
			content: "# Team Handbook\n\n" +
				"Welcome aboard. This handbook is **shared** with the whole team.\n\n" +
				"## Working hours\n\n- Core hours are 10:00 to 16:00\n- Async by default\n",
			shares: map[string]docmodels.PermissionLevel{
				"bob@example.com":   docmodels.PermissionWrite,
				"carol@example.com": docmodels.PermissionRead,
			},
		},
		{
			owner: "alice@example.com",
			title: "Private Journal",
			content: "# Journal\n\n" +
				"Nobody else can read this one.\n",
		},
		{
			owner: "bob@example.com",
			title: "Release Checklist",
			content: "# Release Checklist\n\n" +
				"1. Tag the release\n2. Run the migrations\n3. Announce in the changelog\n",
			shares: map[string]docmodels.PermissionLevel{
				"alice@example.com": docmodels.PermissionRead,
			},
		},
	}
}

func main() {
	// Parse command-line flags
	reset := flag.Bool("reset", false, "Revert every migration before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only apply migrations, don't seed data")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" {
		log.Fatalf("🚫 BLOCKED: Cannot seed the production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: 4})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	migrator, err := migrations.NewMigrator(ctx, pool, tables, logger)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}

	if *reset {
		log.Println("🗑️  Reverting all migrations...")
		if _, err := migrator.Down(ctx, 0); err != nil {
			log.Fatalf("Failed to revert migrations: %v", err)
		}
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if _, err := migrator.Up(ctx, 0); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	docRepo := postgresDocsys.NewDocumentRepository(repoConfig)
	collabRepo := postgresDocsys.NewCollaboratorRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, postgres.TxOptions{
		Timeout:      cfg.StorageTimeout,
		RetryBackoff: cfg.StorageRetryBackoff,
	}, logger)

	// Create services
	authorizer := serviceAuth.NewSharingAuthorizer(docRepo, collabRepo)
	docService := serviceDocsys.NewDocumentService(docRepo, collabRepo, txManager, authorizer, serviceDocsys.NewContentAnalyzer(), logger)
	collabService := serviceDocsys.NewCollaboratorService(collabRepo, userRepo, txManager, authorizer, events.NewLogPublisher(logger), logger)

	// Seed users
	log.Println("👤 Seeding users...")
	users := make(map[string]*models.User, len(seedUsers))
	hasher := identity.NewBcryptHasher(cfg.BcryptCost)
	for _, su := range seedUsers {
		user, err := ensureUser(ctx, userRepo, txManager, hasher.Hash, su)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", su.email, err)
		}
		users[su.email] = user
		log.Printf("✅ User %s (ID: %d)", user.Email, user.ID)
	}

	// Seed documents and shares
	log.Println("📝 Seeding documents...")
	documents := getSeedDocuments()
	for i, sd := range documents {
		owner := users[sd.owner]
		doc, err := docService.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
			OwnerID: owner.ID,
			Title:   sd.title,
			Content: sd.content,
		})
		if err != nil {
			log.Printf("❌ Failed to create document '%s': %v", sd.title, err)
			continue
		}

		log.Printf("✅ Created document %d/%d: %s (ID: %d, Words: %d)",
			i+1, len(documents), doc.Title, doc.ID, doc.WordCount)

		for email, level := range sd.shares {
			_, err := collabService.AddOrUpdateCollaborator(ctx, owner.ID, doc.ID, &docsysSvc.ShareRequest{
				UserID:          users[email].ID,
				PermissionLevel: level,
			})
			if err != nil {
				log.Printf("❌ Failed to share '%s' with %s: %v", sd.title, email, err)
				continue
			}
			log.Printf("   🤝 Shared with %s (%s)", email, level)
		}
	}

	log.Printf("🎉 Seeding complete! Sign in with any seeded email and password %q", demoPassword)
}

// ensureUser returns the existing account for su.email or creates it
func ensureUser(
	ctx context.Context,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	hash func(string) (string, error),
	su seedUser,
) (*models.User, error) {
	var user *models.User
	err := txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := userRepo.GetByEmail(txCtx, su.email)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		passwordHash, err := hash(demoPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user = &models.User{
			Email:        su.email,
			Name:         su.name,
			PasswordHash: passwordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return userRepo.Create(txCtx, user)
	})
	return user, err
}
