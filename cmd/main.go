package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"logreport-backend/config"
	_ "logreport-backend/docs" // Generated by swag
	"logreport-backend/internal/controller"
	"logreport-backend/internal/elasticsearch"
	"logreport-backend/internal/kafka"
	"logreport-backend/internal/report"
	"logreport-backend/internal/scheduler"
	"logreport-backend/internal/service"
	"logreport-backend/internal/store"
)

// @title           Log Report API
// @version         1.0
// @description     Ingests newline-delimited JSON log records and serves per-endpoint average response time reports.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         reports
// @tag.description  Report generation from the current store contents

// @tag.name         logs
// @tag.description  Log ingestion and reload operations

func main() {
	var wg sync.WaitGroup

	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			NewGinEngine,
			NewLogStore,
			NewRenderer,
			service.NewReportService,
			service.NewLogLoaderService,
			service.NewIngestConsumerService,
			controller.NewReportController,
			kafka.NewRecordProducer,
			kafka.NewRecordConsumer,
			elasticsearch.NewRecordStore,
		),
		fx.Invoke(
			ConfigureLogging,
			RegisterAPIRoutes,
			RegisterScheduler,
			InitialReload,
			func(lc fx.Lifecycle, ingestSvc service.IngestConsumerService) {
				startIngestConsumer(lc, &wg, ingestSvc)
			},
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second) // Timeout for startup
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	// Initiate shutdown
	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second) // Timeout for graceful shutdown
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}

	// Wait for background goroutines (like the consumer) to finish
	log.Info().Msg("Waiting for background goroutines to finish...")
	wg.Wait()
	log.Info().Msg("All background processes finished. Exiting.")
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	reportController *controller.ReportController,
) {
	if reportController != nil {
		controller.RegisterReportRoutes(router, reportController)
	} else {
		log.Warn().Msg("ReportController not provided, skipping report API routes.")
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// --- Factory Functions ---

func NewLogStore() *store.Store {
	return store.New()
}

func NewRenderer(logStore *store.Store) *report.Renderer {
	return report.NewRenderer(logStore)
}

// --- Invoker Functions ---

func ConfigureLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, keeping default")
		return
	}
	zerolog.SetGlobalLevel(level)
}

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, loaderSvc service.LogLoaderService) {
	scheduler.NewScheduler(lc, cfg, loaderSvc)
}

// InitialReload populates the store once at startup so the API serves data
// before the first scheduled cycle.
func InitialReload(lc fx.Lifecycle, loaderSvc service.LogLoaderService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := loaderSvc.Reload(ctx); err != nil {
				log.Error().Err(err).Msg("Initial reload failed")
			}
			return nil
		},
	})
}

// startIngestConsumer starts the IngestConsumerService in a goroutine managed by fx lifecycle
func startIngestConsumer(lc fx.Lifecycle, wg *sync.WaitGroup, ingestSvc service.IngestConsumerService) {
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Msg("Starting ingest consumer goroutine")
			go ingestSvc.Run(ctx, wg)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info().Msg("Signaling ingest consumer goroutine to stop...")
			cancel()
			return nil // Return immediately, main WaitGroup handles the actual wait
		},
	})
}
