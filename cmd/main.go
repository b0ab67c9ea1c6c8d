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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"garagepro/internal/caching"
	"garagepro/internal/common"
	"garagepro/internal/config"
	"garagepro/internal/handlers"
	"garagepro/internal/jobs/background"
	"garagepro/internal/logger"
	"garagepro/internal/middleware"
	"garagepro/internal/repositories"
	"garagepro/internal/seed"
	"garagepro/internal/services"
	"garagepro/pkg/database"
)

const (
	version         = "1.0.0"
	apiVersion      = "v1"
	shutdownTimeout = 15 * time.Second
)

// stores bundles the repositories of the configured storage driver.
type stores struct {
	customers repositories.CustomerRepository
	vehicles  repositories.VehicleRepository
	invoices  repositories.InvoiceRepository
	ping      handlers.Pinger
	close     func()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logger")
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("garagepro API exited")
	}
}

// run owns every resource it opens, so all cleanup happens before it returns.
func run(cfg *config.Config) error {
	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	defer st.close()

	redisClient := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()
	cacheSvc := caching.NewRedisCacheService(redisClient)

	// Cached documents may have been written by a previous schema or storage driver.
	flushCtx, cancelFlush := context.WithTimeout(ctx, 5*time.Second)
	if err := cacheSvc.InvalidateAllCache(flushCtx); err != nil {
		log.Warn().Err(err).Msg("Failed to flush cache on startup")
	}
	cancelFlush()

	storage, err := services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		return fmt.Errorf("initialize MinIO client: %w", err)
	}
	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := storage.EnsureBucketExists(bucketCtx, cfg.MinioBucket); err != nil {
		log.Warn().Err(err).Str("bucket", cfg.MinioBucket).Msg("Export bucket unavailable, exports will fail until it is reachable")
	}
	cancel()

	// Create services
	customerSvc := services.NewCustomerService(st.customers)
	vehicleSvc := services.NewVehicleService(st.vehicles, st.customers)
	invoiceSvc := services.NewInvoiceService(st.invoices, st.customers, st.vehicles, cacheSvc, storage, cfg.MinioBucket, cfg.CacheTTL)
	dashboardSvc := services.NewDashboardService(st.invoices, cacheSvc, cfg.CacheTTL)
	exportSvc := services.NewExportService(invoiceSvc, storage, cfg.MinioBucket)

	if cfg.SeedDemoData {
		if _, err := seed.NewSeeder(customerSvc, vehicleSvc, invoiceSvc).Run(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	scheduler, err := background.NewJobScheduler(dashboardSvc, cfg.SummaryRefreshInterval)
	if err != nil {
		return fmt.Errorf("create job scheduler: %w", err)
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger.WithComponent("http")))
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.BodyLimit("1M"))

	api := e.Group("/api")
	api.Use(middleware.NewVersionMiddleware(apiVersion).VersionHeader())

	handlers.NewInvoiceHandlers(invoiceSvc, exportSvc).RegisterRoutes(api)
	handlers.NewCustomerHandlers(customerSvc).RegisterRoutes(api)
	handlers.NewVehicleHandlers(vehicleSvc).RegisterRoutes(api)
	handlers.NewDashboardHandlers(dashboardSvc).RegisterRoutes(api)
	handlers.NewJobHandlers(scheduler).RegisterRoutes(api)

	storagePing := handlers.PingFunc(func(ctx context.Context) error {
		_, err := storage.BucketExists(ctx, cfg.MinioBucket)
		return err
	})
	handlers.NewHealthHandlers(st.ping, cacheSvc, storagePing, version).RegisterRoutes(api)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StorageDriver).Msg("Starting garagepro API")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var runErr error
	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case runErr = <-serverErr:
		log.Error().Err(runErr).Msg("Server stopped unexpectedly, shutting down")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := scheduler.Stop(); err != nil {
		log.Error().Err(err).Msg("Scheduler shutdown failed")
	}
	return runErr
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMongo:
		client, db, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = database.DisconnectMongo(client)
			return nil, err
		}
		return &stores{
			customers: repositories.NewMongoCustomerRepo(db),
			vehicles:  repositories.NewMongoVehicleRepo(db),
			invoices:  repositories.NewMongoInvoiceRepo(db),
			ping: handlers.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			}),
			close: func() { _ = database.DisconnectMongo(client) },
		}, nil

	default:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			database.ClosePool(pool)
			return nil, err
		}
		return &stores{
			customers: repositories.NewCustomerRepo(pool),
			vehicles:  repositories.NewVehicleRepo(pool),
			invoices:  repositories.NewInvoiceRepo(pool),
			ping:      pool,
			close:     func() { database.ClosePool(pool) },
		}, nil
	}
}
