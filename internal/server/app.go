// Package server wires the EduPass vault together: it opens the database,
// builds the services and runs the HTTP API next to the operational gRPC
// endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/edupass/internal/cryptox"
	"github.com/dmitrijs2005/edupass/internal/logging"
	"github.com/dmitrijs2005/edupass/internal/server/auth"
	"github.com/dmitrijs2005/edupass/internal/server/backup"
	"github.com/dmitrijs2005/edupass/internal/server/cache"
	"github.com/dmitrijs2005/edupass/internal/server/config"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/edupass/internal/server/rest"
	"github.com/dmitrijs2005/edupass/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/edupass/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	rdb         *redis.Client
	tokens      *auth.TokenManager
	users       *services.UserService
	sites       *services.SiteService
	credentials *services.CredentialService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel)))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	cipher, err := cryptox.NewCipher(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}

	db, err := repomanager.OpenDB(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewRepositoryManager(c.DatabaseDriver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		tokens:      auth.NewTokenManager([]byte(c.SecretKey), c.AccessTokenValidityDuration),
	}

	var siteCache services.SiteCache
	if c.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, c.RedisAddr, c.RedisPassword)
		if err != nil {
			logger.Warn(ctx, "site cache disabled", "error", err)
		} else {
			app.rdb = rdb
			siteCache = cache.NewSiteCache(rdb, c.SitesCacheTTL)
		}
	}

	app.users = services.NewUserService(db, rm, app.tokens, cryptox.NewPasswordHasher(c.BcryptCost))
	app.sites = services.NewSiteService(db, rm, siteCache, logger)
	app.credentials = services.NewCredentialService(db, rm, cipher)

	return app, nil
}

// Migrate applies pending schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	app.logger.Info(ctx, "Migrations applied", "driver", app.config.DatabaseDriver)
	return nil
}

// Seed installs the default site catalog.
func (app *App) Seed(ctx context.Context) (int, error) {
	return app.sites.Seed(ctx)
}

// Backup uploads a snapshot to the configured sink and returns its key.
func (app *App) Backup(ctx context.Context) (string, error) {
	sink, err := backup.NewSink(ctx, app.config)
	if err != nil {
		return "", err
	}
	return backup.NewService(app.db, app.repomanager, sink, app.logger).Run(ctx)
}

// Close releases the database and cache connections.
func (app *App) Close() error {
	var errs []error
	if app.rdb != nil {
		errs = append(errs, app.rdb.Close())
	}
	errs = append(errs, app.db.Close())
	return errors.Join(errs...)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) httpServer() *rest.Server {
	return rest.NewServer(app.config.EndpointAddrHTTP, app.logger, rest.Deps{
		Users:          app.users,
		Sites:          app.sites,
		Credentials:    app.credentials,
		Tokens:         app.tokens,
		DB:             app.db,
		AllowedOrigins: app.config.AllowedOrigins,
	})
}

// Run migrates, seeds and serves HTTP and gRPC until ctx is canceled or a
// signal arrives. If either listener fails, both are stopped and the first
// error is returned.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	if err := app.Migrate(ctx); err != nil {
		return err
	}
	if _, err := app.Seed(ctx); err != nil {
		return err
	}

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		app.logger.Error(ctx, err.Error())
		once.Do(func() { firstErr = err })
		cancelFunc()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := app.httpServer().Run(ctx); err != nil {
			fail(fmt.Errorf("http server: %w", err))
		}
	}()
	go func() {
		defer wg.Done()
		if err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db).Run(ctx); err != nil {
			fail(fmt.Errorf("grpc server: %w", err))
		}
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return firstErr
}
