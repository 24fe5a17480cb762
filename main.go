package main

import (
	"context"
	"log"
	"net/http"

	"github.com/DevWeb31/phuong-long-sub002/pkg/auth"
	"github.com/DevWeb31/phuong-long-sub002/pkg/config"
	"github.com/DevWeb31/phuong-long-sub002/pkg/database"
	"github.com/DevWeb31/phuong-long-sub002/pkg/handlers"
	"github.com/DevWeb31/phuong-long-sub002/pkg/identity"
	"github.com/DevWeb31/phuong-long-sub002/pkg/logging"
	"github.com/DevWeb31/phuong-long-sub002/pkg/middleware"
	"github.com/DevWeb31/phuong-long-sub002/pkg/repositories"
	"github.com/DevWeb31/phuong-long-sub002/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Log startup configuration
	log.Printf("Configuration loaded:")
	log.Printf("  Environment: %s", cfg.Env)
	log.Printf("  Base URL: %s", cfg.BaseURL)
	log.Printf("  Auth verification: %v", cfg.Auth.EnableVerification)
	log.Printf("  Database: %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	connString := cfg.Database.ConnectionString()
	if err := database.RunMigrations(connString, cfg.MigrationsPath, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connString,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories
	roleRepo := repositories.NewRoleRepository(db)
	bindingRepo := repositories.NewRoleBindingRepository(db)
	userRepo := repositories.NewUserRepository(db)
	clubRepo := repositories.NewClubRepository(db)
	requestRepo := repositories.NewMembershipRequestRepository(db)
	siteConfigRepo := repositories.NewSiteConfigRepository(db)

	// Identity: token verification and the session cookie
	verifier, err := identity.NewJWKSVerifier(&identity.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	cookies := identity.NewCookieStore(cfg.Cookie.Secret, cfg.BaseURL, cfg.Cookie.Domain)
	provider := identity.NewProvider(cookies, verifier, logger)

	// Authorization core
	resolver := auth.NewRoleResolver(bindingRepo, roleRepo, userRepo, clubRepo, requestRepo, logger)
	siteFlags := services.NewSiteFlags(siteConfigRepo, logger)
	gate := auth.NewRouteGate(resolver, siteFlags, cfg.Routes, logger)
	authMiddleware := auth.NewMiddleware(provider, gate, logger)

	membershipService := services.NewMembershipService(requestRepo, userRepo, clubRepo, resolver, logger)

	mux := http.NewServeMux()

	// Register handlers
	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	sessionHandler := handlers.NewSessionHandler(cookies, verifier, userRepo, resolver, logger)
	sessionHandler.RegisterRoutes(mux)

	membershipHandler := handlers.NewMembershipHandler(membershipService, logger)
	membershipHandler.RegisterRoutes(mux)

	siteConfigHandler := handlers.NewSiteConfigHandler(siteFlags, logger)
	siteConfigHandler.RegisterRoutes(mux)

	// Serve static UI files from ui/dist
	fs := http.FileServer(http.Dir("./ui/dist"))
	mux.Handle("/", fs)

	// The gate runs outermost so every route, including static pages, is
	// subject to the access rules. The request logger sits inside it so
	// entries carry the resolved principal.
	handler := authMiddleware.Gate(middleware.RequestLogger(logger)(mux))

	log.Printf("Starting phuong-long-web on port %s (version: %s)", cfg.Port, cfg.Version)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
