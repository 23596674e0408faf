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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/skssmd/patient-project/database"
	"github.com/skssmd/patient-project/docs"
	"github.com/skssmd/patient-project/internal/cache"
	"github.com/skssmd/patient-project/internal/config"
	"github.com/skssmd/patient-project/internal/controllers"
	"github.com/skssmd/patient-project/internal/middleware"
	"github.com/skssmd/patient-project/internal/processing"
	"github.com/skssmd/patient-project/internal/repository"
	"github.com/skssmd/patient-project/internal/services"
	"github.com/skssmd/patient-project/routes"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, log)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.MigrateDatabase(db, log); err != nil {
		return err
	}
	database.MonitorDBConnections(ctx, db, log, 30*time.Second)

	var redisClient *cache.RedisClient
	if cfg.RedisEnabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			// The service works without the cache, only slower.
			log.Warn().Err(err).Msg("redis unavailable, metrics cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info().Dur("ttl", cfg.RedisTTL).Msg("metrics cache enabled")
		}
	}

	router := newRouter(cfg, db, redisClient, log)

	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	server := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   cfg.ProcessingTimeout + 30*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("db_driver", cfg.DBDriver).
			Str("processing_api", cfg.ProcessingBaseURL).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// newRouter wires repositories, services and controllers onto a gin engine.
// redisClient may be nil.
func newRouter(cfg *config.Config, db *gorm.DB, redisClient *cache.RedisClient, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	patientRepo := repository.NewPatientRepository(db)
	var metricsRepo repository.PatientMetricsRepository
	if redisClient != nil {
		metricsRepo = repository.NewCachedPatientMetricsRepository(db, redisClient, cfg.RedisTTL, log)
	} else {
		metricsRepo = repository.NewPatientMetricsRepository(db)
	}

	processingClient := processing.NewHTTPClient(processing.Config{
		BaseURL:       cfg.ProcessingBaseURL,
		SkipTLSVerify: cfg.ProcessingSkipTLSVerify,
		Timeout:       cfg.ProcessingTimeout,
	}, log)

	patientController := controllers.NewPatientController(services.NewPatientService(patientRepo, metricsRepo, log))
	processController := controllers.NewProcessController(services.NewProcessService(patientRepo, metricsRepo, processingClient, log))
	healthController := controllers.NewHealthController(db, redisClient)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	routes.RegisterHealthRoutes(router, healthController)
	routes.RegisterPatientRoutes(router, patientController)
	routes.RegisterProcessRoutes(router, processController)
	routes.RegisterSwaggerRoutes(router)

	return router
}
