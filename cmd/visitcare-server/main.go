package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/visitcare/visitcare/internal/config"
	"github.com/visitcare/visitcare/internal/domain/patient"
	"github.com/visitcare/visitcare/internal/domain/plan"
	"github.com/visitcare/visitcare/internal/domain/supply"
	"github.com/visitcare/visitcare/internal/domain/visit"
	"github.com/visitcare/visitcare/internal/platform/auth"
	"github.com/visitcare/visitcare/internal/platform/db"
	"github.com/visitcare/visitcare/internal/platform/middleware"
	"github.com/visitcare/visitcare/internal/platform/report"
)

// PatientLookupAdapter adapts a patient.Service to the plan.PatientLookup
// interface, avoiding circular imports between the plan and patient packages.
type PatientLookupAdapter struct {
	svc *patient.Service
}

// GetPatient implements plan.PatientLookup. A deleted patient yields a nil
// header rather than an error so exports of old plans keep working.
func (a *PatientLookupAdapter) GetPatient(ctx context.Context, id uuid.UUID) (*plan.PatientHeader, error) {
	p, err := a.svc.Get(ctx, id)
	if errors.Is(err, patient.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan.PatientHeader{
		ID:        p.ID,
		Name:      p.Name,
		BirthDate: p.BirthDate,
	}, nil
}

// SupplyListerAdapter adapts a supply.Service to the plan.SupplyLister
// interface.
type SupplyListerAdapter struct {
	svc *supply.Service
}

// ListForPatient implements plan.SupplyLister.
func (a *SupplyListerAdapter) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]plan.CareSupply, error) {
	supplies, err := a.svc.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	result := make([]plan.CareSupply, 0, len(supplies))
	for _, s := range supplies {
		cs := plan.CareSupply{Name: s.Name}
		if s.Amount != nil {
			cs.Amount = *s.Amount
		}
		if s.Note != nil {
			cs.Note = *s.Note
		}
		result = append(result, cs)
	}
	return result, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "visitcare-server",
		Short: "Visit nursing care plan API server",
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
		Short: "Start the care plan API server",
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

	// migrate up
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

	// migrate status
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
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(middleware.BodyLimit("2M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.ResolvedAuthMode() == "development" {
		logger.Warn().Msg("development auth mode: requests without a token run as admin")
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}

	// Services
	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	visitRepo := visit.NewRepoPG(pool)
	visitSvc := visit.NewService(visitRepo)
	supplySvc := supply.NewService(supply.NewRepoPG(pool))

	planSvc := plan.NewService(plan.NewRepoPG(pool), visit.NewDurationFinder(visitRepo))
	planSvc.SetEvidenceTolerance(cfg.EvidenceTolerance())
	planSvc.SetPatientLookup(&PatientLookupAdapter{svc: patientSvc})
	planSvc.SetSupplyLister(&SupplyListerAdapter{svc: supplySvc})

	generator := report.NewClient(cfg.ReportBackendURL, cfg.ReportTimeout)

	// Routes
	apiV1 := e.Group("/api/v1")
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	visit.NewHandler(visitSvc).RegisterRoutes(apiV1)
	supply.NewHandler(supplySvc).RegisterRoutes(apiV1)
	plan.NewHandler(planSvc, generator).RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

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
