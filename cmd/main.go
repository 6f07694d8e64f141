/**
 * @description
 * This is the main entry point for the backend-service.
 * It initializes and wires together all the components of the application,
 * including configuration, database connection, repositories, services,
 * external API clients, and the HTTP router. Finally, it starts the HTTP
 * server to listen for incoming requests.
 */
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/brandpulse/backend-service/internal/api"
	"github.com/brandpulse/backend-service/internal/app"
	"github.com/brandpulse/backend-service/internal/config"
	"github.com/brandpulse/backend-service/internal/store"
	"github.com/brandpulse/backend-service/pkg/openaiclient"
	"github.com/brandpulse/backend-service/pkg/paystackclient"
)

// syncStore and reconcilerStore compose the repositories into the store
// interfaces the app layer consumes.
type syncStore struct {
	*store.UserRepository
	*store.SubscriptionRepository
}

type reconcilerStore struct {
	*store.UserRepository
	*store.SubscriptionRepository
}

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env for local development; in production everything comes from
	// the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env, falling back to environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Establish connection to the PostgreSQL database with connection pool configuration
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to parse database URL", "error", err)
		os.Exit(1)
	}

	poolCfg.MaxConns = 100
	poolCfg.MinConns = 20
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// IMPORTANT: Disable prepared statements to work with PgBouncer transaction pooling
	// Use simple protocol to avoid statement cache errors (SQLSTATE 42P05)
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	// Repositories
	users := store.NewUserRepository(dbpool)
	subscriptions := store.NewSubscriptionRepository(dbpool)
	profiles := store.NewProfileRepository(dbpool)

	// External API clients, constructed once at startup
	paystackClient := paystackclient.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey)
	openaiClient := openaiclient.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)

	// Application layers
	service := app.NewService(syncStore{users, subscriptions})
	reconciler := app.NewReconciler(reconcilerStore{users, subscriptions})
	chatService := app.NewChatService(profiles, openaiClient, cfg.OpenAIModel)

	handler := api.NewHandler(service, chatService, paystackClient)
	webhook := api.NewWebhookHandler(reconciler, cfg.PaystackSecretKey)
	router := api.NewRouter(handler, webhook, cfg.SupabaseJWTSecret)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
