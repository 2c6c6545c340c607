package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"noteshare/internal/auth"
	"noteshare/internal/config"
	"noteshare/internal/domain/services"
	"noteshare/internal/events"
	"noteshare/internal/handler"
	"noteshare/internal/middleware"
	serviceAuth "noteshare/internal/service/auth"
	serviceDocsys "noteshare/internal/service/docsystem"
	"noteshare/internal/service/docsystem/converter"
	"noteshare/internal/service/identity"
	"noteshare/internal/telemetry"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logger, logFile, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logFile.Close()
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"storage", cfg.StorageDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing
	traceCfg := telemetry.Config{
		ServiceName:  cfg.ServiceName,
		OTLPEndpoint: cfg.OTLPEndpoint,
	}
	if cfg.TraceStdout {
		traceCfg.Stdout = os.Stderr
	}
	shutdownTracing, err := telemetry.NewProvider(traceCfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Storage
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	// Token verification: self-issued HMAC tokens, optionally an external IdP
	var verifiers []services.TokenVerifier
	if cfg.JWTSecret != "" {
		hmacVerifier, err := auth.NewHMACVerifier(cfg.JWTSecret, cfg.JWTIssuer, logger)
		if err != nil {
			log.Fatalf("Failed to create token verifier: %v", err)
		}
		verifiers = append(verifiers, hmacVerifier)
	}
	if cfg.AuthJWKSURL != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(auth.JWKSConfig{
			URL:      cfg.AuthJWKSURL,
			Issuer:   cfg.AuthJWKSIssuer,
			Audience: cfg.AuthJWKSAudience,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to create JWKS verifier: %v", err)
		}
		verifiers = append(verifiers, jwksVerifier)
	}
	tokenVerifier := auth.NewChainVerifier(verifiers...)
	defer tokenVerifier.Close()

	// Collaborator change events
	var publisher services.EventPublisher = events.NewLogPublisher(logger)
	if cfg.AMQPURL != "" {
		publisher = events.NewRabbitPublisher(cfg.AMQPURL, cfg.EventsQueue, logger)
		logger.Info("publishing collaborator events", "queue", cfg.EventsQueue)
	}
	defer publisher.Close()

	// Rate limiting (pass-through when Redis is unavailable)
	rdb := config.NewRedisClient(cfg.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	// Create services
	authorizer := serviceAuth.NewSharingAuthorizer(store.Documents, store.Collaborators)
	contentAnalyzer := serviceDocsys.NewContentAnalyzer()
	renderers := converter.NewRendererRegistry(contentAnalyzer)

	docService := serviceDocsys.NewDocumentService(store.Documents, store.Collaborators, store.TxManager, authorizer, contentAnalyzer, logger)
	collabService := serviceDocsys.NewCollaboratorService(store.Collaborators, store.Users, store.TxManager, authorizer, publisher, logger)
	exportService := serviceDocsys.NewExportService(store.TxManager, authorizer, renderers, logger)

	var tokenIssuer services.TokenIssuer = disabledIssuer{}
	if cfg.SelfIssuedTokens() {
		tokenIssuer = identity.NewHMACTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	}
	accountService := identity.NewAccountService(store.Users, store.TxManager, identity.NewBcryptHasher(cfg.BcryptCost), tokenIssuer, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Account:      handler.NewAccountHandler(accountService, logger),
		Document:     handler.NewDocumentHandler(docService, logger),
		Collaborator: handler.NewCollaboratorHandler(collabService, logger),
		Export:       handler.NewExportHandler(exportService, logger),
		DB:           store.Pinger,
	})

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: Tracing → CORS → Recovery → Auth → RateLimit → Routes
	h = middleware.RateLimit(cfg.RateLimit, rdb, logger)(h)
	h = middleware.Auth(tokenVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)
	h = otelhttp.NewHandler(h, "noteshare.http")

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
