package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rxgate/rxgate/internal/config"
	"github.com/rxgate/rxgate/internal/domain/account"
	"github.com/rxgate/rxgate/internal/domain/customer"
	"github.com/rxgate/rxgate/internal/domain/order"
	"github.com/rxgate/rxgate/internal/domain/prescription"
	"github.com/rxgate/rxgate/internal/platform/auth"
	"github.com/rxgate/rxgate/internal/platform/db"
	"github.com/rxgate/rxgate/internal/platform/metrics"
	"github.com/rxgate/rxgate/internal/platform/middleware"
	"github.com/rxgate/rxgate/internal/platform/webhook"
	"github.com/rxgate/rxgate/pkg/apperror"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rxgate-server",
		Short: "Prescription intake and submission API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the rxgate API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Shared infrastructure
	m := metrics.New()
	hooks := webhook.NewClient(logger, webhook.WithTimeout(cfg.WebhookTimeout))
	catalog, err := prescription.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load medicine catalog")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))
	e.Use(m.Middleware())

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
			Skipper:  auth.AuthSkipper,
		}))
	}

	// Domain wiring
	queue := order.NewMemoryQueue()

	orderRepo := order.NewRepo(pool)
	orderSvc := order.NewService(orderRepo, pool, logger)
	orderHandler := order.NewHandler(orderSvc, queue, m)

	customerRepo := customer.NewRepo(pool)
	customerSvc := customer.NewService(customerRepo, orderRepo)
	fetcher := customer.NewFetcher(hooks, queue, cfg.FetchCustomerWebhookURL,
		cfg.QueuePollAttempts, cfg.QueuePollInterval, logger)
	customerHandler := customer.NewHandler(customerSvc, fetcher)

	rxRepo := prescription.NewRepo(pool)
	rxSvc := prescription.NewService(rxRepo, pool, logger)
	forwarder := prescription.NewForwarder(hooks, catalog, cfg.SubmitWebhookURL, logger)
	rxHandler := prescription.NewHandler(rxSvc, forwarder, m)

	idp := account.NewHTTPProvider(cfg.IDPAPIURL, cfg.IDPAPIKey)
	accountSvc := account.NewService(idp, logger)
	accountHandler := account.NewHandler(accountSvc)

	// Routes. Intake and queue endpoints are called by external automation;
	// clinician tooling is gated to doctor/nurse roles.
	orderHandler.RegisterRoutes(e.Group(""))
	clinician := e.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleNurse))
	customerHandler.RegisterRoutes(clinician)
	rxHandler.RegisterRoutes(clinician)
	accountHandler.RegisterRoutes(e.Group("", auth.RequireAuthenticated()))

	e.GET("/health", db.HealthHandler(pool))
	e.GET("/metrics", m.Handler())

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
