package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"classfolio/internal/auth"
	"classfolio/internal/config"
	"classfolio/internal/drive"
	"classfolio/internal/handler"
	"classfolio/internal/middleware"
	"classfolio/internal/repository/postgres"
	"classfolio/internal/service"
	"classfolio/internal/service/authz"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token verifier: JWKS-backed when a JWKS URL is configured, otherwise
	// local decode with expiry checking only
	var verifier auth.TokenVerifier
	if cfg.AuthJWKSURL != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWKS verifier: %v", err)
		}
		verifier = jwksVerifier
	} else {
		logger.Warn("AUTH_JWKS_URL not set, token signatures are NOT verified")
		verifier = auth.NewLocalVerifier(logger, nil)
	}
	defer verifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	shareLinkRepo := postgres.NewShareLinkRepository(repoConfig)
	driveTokenRepo := postgres.NewDriveTokenRepository(repoConfig)

	// Resolve the drive provider profile, applying env overrides
	providerRegistry, err := drive.NewProviderRegistry()
	if err != nil {
		log.Fatalf("Failed to load drive provider registry: %v", err)
	}
	provider, err := providerRegistry.Get(cfg.DriveProvider)
	if err != nil {
		log.Fatalf("Failed to resolve drive provider: %v", err)
	}
	if cfg.DriveAPIBase != "" {
		provider.APIBase = cfg.DriveAPIBase
	}
	if cfg.DriveUploadBase != "" {
		provider.UploadBase = cfg.DriveUploadBase
	}
	if cfg.DriveTokenURL != "" {
		provider.TokenURL = cfg.DriveTokenURL
	}
	logger.Info("drive provider resolved", "provider", provider.Name, "api_base", provider.APIBase)

	// Credential cache and token source
	tokenCache := drive.NewTokenCache()
	tokenSource := drive.NewStoreTokenSource(
		driveTokenRepo,
		tokenCache,
		drive.OAuthConfig{
			TokenURL:     provider.TokenURL,
			ClientID:     cfg.DriveClientID,
			ClientSecret: cfg.DriveClientSecret,
		},
		nil,
		nil,
		logger,
	)

	// Drive API client (serves as both storage and trash mirror)
	driveClient := drive.NewClient(provider, tokenSource, nil, logger)

	// Create services
	resolver := authz.NewOwnerResolver(projectRepo, folderRepo, fileRepo)
	projectService := service.NewProjectService(projectRepo, resolver, driveClient, nil, logger)
	folderService := service.NewFolderService(folderRepo, resolver, driveClient, nil, logger)
	fileService := service.NewFileService(fileRepo, resolver, driveClient, nil, logger)
	trashService := service.NewTrashService(projectRepo, folderRepo, fileRepo, resolver, driveClient, nil, logger)
	shareService := service.NewShareService(shareLinkRepo, projectRepo, folderRepo, fileRepo, resolver, nil, logger)

	// Create handlers
	healthHandler := handler.NewHealthHandler(pool)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	fileHandler := handler.NewFileHandler(fileService, logger)
	trashHandler := handler.NewTrashHandler(trashService, logger)
	shareHandler := handler.NewShareHandler(shareService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Project routes
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /api/projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /api/projects/trash", projectHandler.ListTrashedProjects) // Must come before {id} route
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", projectHandler.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", trashHandler.SoftDeleteProject)
	mux.HandleFunc("POST /api/projects/{id}/restore", trashHandler.RestoreProject)
	mux.HandleFunc("DELETE /api/projects/{id}/permanent", trashHandler.HardDeleteProject)

	// Project-scoped trash routes
	mux.HandleFunc("GET /api/projects/{id}/trash", trashHandler.ListTrash)
	mux.HandleFunc("DELETE /api/projects/{id}/trash", trashHandler.EmptyTrash)

	// Project-scoped file listing
	mux.HandleFunc("GET /api/projects/{id}/files", fileHandler.ListFiles)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", trashHandler.SoftDeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/restore", trashHandler.RestoreFolder)
	mux.HandleFunc("DELETE /api/folders/{id}/permanent", trashHandler.HardDeleteFolder)

	// File routes
	mux.HandleFunc("POST /api/files", fileHandler.UploadFile)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.GetFile)
	mux.HandleFunc("DELETE /api/files/{id}", trashHandler.SoftDeleteFile)
	mux.HandleFunc("POST /api/files/{id}/restore", trashHandler.RestoreFile)
	mux.HandleFunc("DELETE /api/files/{id}/permanent", trashHandler.HardDeleteFile)

	// Share link routes
	mux.HandleFunc("PUT /api/projects/{id}/share", shareHandler.UpsertShareLink)
	mux.HandleFunc("GET /api/projects/{id}/share", shareHandler.GetShareLink)
	mux.HandleFunc("DELETE /api/projects/{id}/share", shareHandler.RevokeShareLink)
	mux.HandleFunc("GET /api/share/{slug}", shareHandler.ResolveSlug)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(verifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
