package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anushST/landset-nasa/internal/api/handlers"
	"github.com/anushST/landset-nasa/internal/cache"
	"github.com/anushST/landset-nasa/internal/catalog"
	"github.com/anushST/landset-nasa/internal/config"
	"github.com/anushST/landset-nasa/internal/database"
	"github.com/anushST/landset-nasa/internal/jobs"
	"github.com/anushST/landset-nasa/internal/queue"
	"github.com/anushST/landset-nasa/internal/repository"
	"github.com/anushST/landset-nasa/internal/server"
	"github.com/anushST/landset-nasa/internal/service"
	"github.com/anushST/landset-nasa/internal/storage"
	"github.com/anushST/landset-nasa/internal/telemetry"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and pipeline workers",
		Long:  "Start the landset API server, the scene search worker and the acquisition plan crawler",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if cfg.SentryDSN != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	overridePort(cmd, cfg)

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	log.Println("connected to redis")

	requestQueue := queue.NewRedisQueue(redisClient, queue.DefaultKey)
	resultCache := cache.NewRedisCache(redisClient, cfg.ResultTTL)

	acquisitionRepo := repository.NewAcquisitionRepository(pool)

	catalogClient := catalog.NewClient(cfg.StacURL, cfg.PlanURL, cfg.PlanAPIKey, cfg.CatalogTimeout)

	sceneProcessor := jobs.NewSceneSearchWorker(requestQueue, resultCache, catalogClient, cfg.SearchDelta, cfg.Collection)
	sceneWorker := jobs.NewWorker("scene-search", sceneProcessor, cfg.PollInterval)
	go sceneWorker.Start(ctx)
	log.Println("scene search worker started")

	var planCrawlerWorker *jobs.Worker
	if cfg.HasPlanAPI() {
		crawler := jobs.NewPlanCrawler(acquisitionRepo, catalogClient, cfg.Satellites, cfg.CrawlMaxDays)
		planCrawlerWorker = jobs.NewWorker("plan-crawler", crawler, cfg.CrawlInterval)
		go planCrawlerWorker.Start(ctx)
		log.Println("acquisition plan crawler started")
	} else {
		log.Println("PLAN_URL not set, acquisition plan crawler disabled")
	}

	var assetStore handlers.AssetStore
	if cfg.HasS3() {
		landsatStore, err := storage.NewLandsatStore(ctx, storage.LandsatStoreConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
		})
		if err != nil {
			return fmt.Errorf("failed to create scene archive client: %w", err)
		}
		assetStore = landsatStore
		log.Printf("scene archive ready (bucket '%s')", cfg.S3Bucket)
	} else {
		log.Println("S3 credentials not set, scene assets endpoint disabled")
	}

	sceneSvc := service.NewSceneService(requestQueue, resultCache)
	acquisitionSvc := service.NewAcquisitionService(acquisitionRepo)

	routerCfg := server.RouterConfig{
		SceneHandler:       handlers.NewSceneHandler(sceneSvc, assetStore),
		AcquisitionHandler: handlers.NewAcquisitionHandler(acquisitionSvc),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	sceneWorker.Stop()
	if planCrawlerWorker != nil {
		planCrawlerWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// overridePort applies an explicitly set --port flag over the
// environment's port. An unset flag leaves the config untouched, even
// when both happen to carry the default value.
func overridePort(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetString("port")
	}
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	// Create postgres driver instance
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Create migrate instance with file source
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Run migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Get migration version and status
	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
