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

	"github.com/ruralcare/clinic/internal/config"
	"github.com/ruralcare/clinic/internal/domain/identity"
	"github.com/ruralcare/clinic/internal/domain/patient"
	"github.com/ruralcare/clinic/internal/domain/pharmacy"
	"github.com/ruralcare/clinic/internal/domain/scheduling"
	"github.com/ruralcare/clinic/internal/domain/vitals"
	"github.com/ruralcare/clinic/internal/platform/apperror"
	"github.com/ruralcare/clinic/internal/platform/auth"
	"github.com/ruralcare/clinic/internal/platform/db"
	"github.com/ruralcare/clinic/internal/platform/middleware"
	"github.com/ruralcare/clinic/internal/platform/reporting"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "RuralCare clinic API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
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

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed demo doctors, patients, medicines, and default accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

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

			return db.NewSeeder(pool, logger).Run(ctx)
		},
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Schema and demo data are applied on boot so a fresh database is
	// usable immediately.
	migrator := db.NewMigrator(pool, cfg.MigrationsDir)
	applied, err := migrator.Up(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}
	if applied > 0 {
		logger.Info().Int("applied", applied).Msg("migrations applied")
	}
	if err := db.NewSeeder(pool, logger).Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)
	txRunner := db.NewTxRunner(pool)

	// Repositories
	userRepo := identity.NewUserRepo(pool)
	patientRepo := patient.NewPatientRepo(pool)
	noteRepo := patient.NewNoteRepo(pool)
	doctorRepo := scheduling.NewDoctorRepo(pool)
	slotRepo := scheduling.NewSlotRepo(pool)
	appointmentRepo := scheduling.NewAppointmentRepo(pool)
	medicineRepo := pharmacy.NewMedicineRepo(pool)
	prescriptionRepo := pharmacy.NewPrescriptionRepo(pool)
	baselineRepo := vitals.NewBaselineRepo(pool)

	// Services
	vitalsSvc := vitals.NewService(baselineRepo, patientRepo)
	patientSvc := patient.NewService(patientRepo, noteRepo, vitalsSvc)
	schedulingSvc := scheduling.NewService(doctorRepo, slotRepo, appointmentRepo, txRunner)
	identitySvc := identity.NewService(userRepo, tokens, patientSvc, schedulingSvc)
	pharmacySvc := pharmacy.NewService(medicineRepo, prescriptionRepo, txRunner)
	reportGen := reporting.NewGenerator(pool)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperror.NewHTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "Rural Health API running",
		})
	})
	e.GET("/health/db", func(c echo.Context) error {
		h := db.CheckHealth(c.Request().Context(), pool)
		status := http.StatusOK
		if !h.Healthy {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, h)
	})

	// API routes
	api := e.Group("/api")
	authRL := middleware.RateLimit(middleware.AuthRateLimitConfig())
	identity.NewHandler(identitySvc).RegisterRoutes(api, tokens, authRL)
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(api, tokens)
	pharmacy.NewHandler(pharmacySvc).RegisterRoutes(api, tokens)
	vitals.NewHandler(vitalsSvc).RegisterRoutes(api, tokens)
	reporting.NewHandler(reportGen).RegisterRoutes(api, tokens)

	// Start with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
