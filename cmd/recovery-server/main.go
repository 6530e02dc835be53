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

	"github.com/recoverypath/recovery-engine/internal/config"
	"github.com/recoverypath/recovery-engine/internal/domain/checkin"
	"github.com/recoverypath/recovery-engine/internal/domain/intervention"
	"github.com/recoverypath/recovery-engine/internal/domain/milestone"
	"github.com/recoverypath/recovery-engine/internal/domain/profile"
	"github.com/recoverypath/recovery-engine/internal/domain/risk"
	"github.com/recoverypath/recovery-engine/internal/domain/stage"
	"github.com/recoverypath/recovery-engine/internal/platform/db"
	"github.com/recoverypath/recovery-engine/internal/platform/llm"
	"github.com/recoverypath/recovery-engine/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "recovery-server",
		Short: "Recovery risk assessment and crisis intervention API server",
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
		Short: "Start the API server",
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
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	apiV1 := e.Group("/api/v1")

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Repositories
	profileRepo := profile.NewRepoPG(pool)
	checkInRepo := checkin.NewRepoPG(pool)
	milestoneRepo := milestone.NewRepoPG(pool)

	// LLM collaborators are optional. Without an API key the intervention
	// planner serves static content only.
	var (
		textGen      intervention.TextGenerator
		anonymizer   intervention.PromptAnonymizer
		personalizer intervention.ContentPersonalizer
		coaching     intervention.CoachingAdapter
	)
	if cfg.OpenAIKey != "" {
		client := llm.NewClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.LLMTimeout, logger)
		textGen = client
		personalizer = client
		anonymizer = llm.NewAnonymizer()
		coaching = llm.NewCoaching(client)
		logger.Info().Str("model", cfg.OpenAIModel).Msg("LLM content generation enabled")
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set; interventions use static content only")
	}

	// Profile domain
	profileSvc := profile.NewService(profileRepo)
	profile.NewHandler(profileSvc).RegisterRoutes(apiV1)

	// Check-in domain
	checkInSvc := checkin.NewService(checkInRepo)
	checkin.NewHandler(checkInSvc).RegisterRoutes(apiV1)

	// Milestone domain
	milestoneSvc := milestone.NewService(milestoneRepo)
	milestone.NewHandler(milestoneSvc).RegisterRoutes(apiV1)

	// Risk assessment
	assessor := risk.NewAssessor(profileRepo, checkInRepo, risk.SystemClock(), logger)
	risk.NewHandler(assessor).RegisterRoutes(apiV1)

	// Stage tracking
	tracker := stage.NewTracker(profileRepo, checkInRepo, milestoneRepo, risk.SystemClock(), logger)
	stage.NewHandler(tracker).RegisterRoutes(apiV1)

	// Crisis intervention
	planner := intervention.NewPlanner(profileRepo, checkInRepo, assessor, textGen, anonymizer, personalizer, coaching, risk.SystemClock(), logger)
	intervention.NewHandler(planner).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
