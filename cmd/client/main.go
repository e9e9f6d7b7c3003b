package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-field-sync/config"
	"github.com/fekuna/omnipos-field-sync/pkg/logger"
	"github.com/fekuna/omnipos-field-sync/pkg/sqlite"

	catRepoPkg "github.com/fekuna/omnipos-field-sync/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-field-sync/internal/catalog/usecase"
	"github.com/fekuna/omnipos-field-sync/internal/monitor"
	ordRepoPkg "github.com/fekuna/omnipos-field-sync/internal/order/repository"
	ordUCPkg "github.com/fekuna/omnipos-field-sync/internal/order/usecase"
	"github.com/fekuna/omnipos-field-sync/internal/remote"
	"github.com/fekuna/omnipos-field-sync/internal/retry"
	sesRepoPkg "github.com/fekuna/omnipos-field-sync/internal/session/repository"
	sesUCPkg "github.com/fekuna/omnipos-field-sync/internal/session/usecase"
	syncPkg "github.com/fekuna/omnipos-field-sync/internal/sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		FilePath:          cfg.Logger.FilePath,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.App.AppEnv == "development" || cfg.App.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Open the local database
	db, err := sqlite.Open(&sqlite.Config{
		Path:            cfg.Sqlite.Path,
		MaxOpenConns:    cfg.Sqlite.MaxOpenConns,
		MaxIdleConns:    cfg.Sqlite.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Sqlite.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not open local database", zap.Error(err))
	}
	defer db.Close()

	if err := sqlite.InitSchema(db); err != nil {
		appLogger.Fatal("Could not initialize schema", zap.Error(err))
	}
	appLogger.Info("Local database ready", zap.String("path", cfg.Sqlite.Path))

	// 4. Initialize Repositories
	ordRepo := ordRepoPkg.NewSQLiteRepository(db)
	catRepo := catRepoPkg.NewSQLiteRepository(db)
	sesRepo := sesRepoPkg.NewSQLiteRepository(db)

	// 5. Initialize Remote Client
	remoteClient := remote.NewHTTPClient(&remote.Config{
		BaseURL:  cfg.Remote.BaseURL,
		APIToken: cfg.Remote.APIToken,
		Timeout:  time.Duration(cfg.Remote.Timeout) * time.Second,
	})
	appLogger.Info("Remote client configured", zap.String("base_url", cfg.Remote.BaseURL))

	// 6. Initialize Monitor and Sync Engine
	mon := monitor.New(appLogger)
	policy := retry.NewPolicy(cfg.Sync.MaxAttempts, time.Duration(cfg.Sync.BaseDelayMs)*time.Millisecond)
	engine := syncPkg.NewEngine(
		ordRepo,
		sesRepo,
		remoteClient,
		catRepo.HasClientRef,
		mon,
		mon,
		policy,
		&syncPkg.Config{Interval: cfg.SyncInterval(), RingSize: cfg.Sync.ErrorRingSize},
		appLogger,
	)
	mon.Attach(engine)

	// 7. Initialize UseCases
	ordUC := ordUCPkg.NewOrderUseCase(ordRepo, engine, appLogger)
	catUC := catUCPkg.NewCatalogUseCase(catRepo, remoteClient, appLogger)
	sesUC := sesUCPkg.NewSessionUseCase(sesRepo, mon, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if count, err := ordUC.PendingCount(ctx); err == nil && count > 0 {
		appLogger.Info("Orders queued from previous run", zap.Int("pending", count))
	}

	// 8. Restore session state: an unexpired session from the last run keeps
	// the device authenticated without a fresh sign-in.
	if sess, err := sesUC.Current(ctx); err == nil && sess != nil && !sess.Expired(time.Now()) {
		mon.SetAuthenticated(true)
		appLogger.Info("Session restored", zap.String("user_id", sess.UserID))

		go func(warehouseID string) {
			if _, err := catUC.RefreshProducts(ctx, warehouseID); err != nil {
				appLogger.Warn("Product cache refresh failed", zap.Error(err))
			}
			if _, err := catUC.RefreshClients(ctx, warehouseID); err != nil {
				appLogger.Warn("Client cache refresh failed", zap.Error(err))
			}
		}(sess.WarehouseID)
	}

	// 9. Start the engine. The host UI drives SetOnline / sign-in events and
	// the manual sync action from here on.
	go engine.Run(ctx)
	mon.SetOnline(true)
	engine.RequestSync()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	cancel()
	appLogger.Info("Stopped")
}
