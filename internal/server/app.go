// Package server wires the store, services and HTTP API together and runs
// them until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/cargodesk/internal/logging"
	"github.com/dmitrijs2005/cargodesk/internal/server/config"
	"github.com/dmitrijs2005/cargodesk/internal/server/httpapi"
	"github.com/dmitrijs2005/cargodesk/internal/server/lock"
	"github.com/dmitrijs2005/cargodesk/internal/server/metrics"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cargodesk/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	redis           *redis.Client
	backupService   *services.BackupService
	shipmentService *services.ShipmentService
	locker          lock.Locker
	metrics         *metrics.Metrics
}

// OpenStore opens the configured database and brings its schema up to date.
func OpenStore(ctx context.Context, c *config.Config) (*sql.DB, *repomanager.SQLRepositoryManager, error) {
	db, rm, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}
	return db, rm, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, os.Stdout, c.LogDebug)
	if err != nil {
		return nil, err
	}

	db, rm, err := OpenStore(ctx, c)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, db: db, metrics: metrics.New()}

	app.backupService = services.NewBackupService(db, rm, logger, app.metrics)
	app.shipmentService = services.NewShipmentService(db, rm, logger)

	if c.RedisAddress != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddress})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.locker = lock.NewRedis(app.redis, c.ImportLockTTL)
		logger.Info(ctx, "using redis import lock", "address", c.RedisAddress)
	} else {
		app.locker = lock.NewLocal()
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(httpapi.Options{
		Address:       app.config.HTTPAddr,
		SecretKey:     app.config.SecretKey,
		MaxUploadSize: app.config.MaxUploadSize,
		AllowOrigins:  app.config.CORSAllowedOrigins,
	}, app.logger, app.backupService, app.shipmentService, app.locker, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "close error", "error", err)
	}
}

// Close releases the database pool and the Redis client, if any.
func (app *App) Close() error {
	var err error
	if app.redis != nil {
		err = app.redis.Close()
		app.redis = nil
	}
	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
		app.db = nil
	}
	return err
}
