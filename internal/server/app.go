// Package server wires configuration, storage, services and transports
// together and runs the HTTP API and the gRPC ops endpoint until a
// termination signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/metrics"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/taskkeeper/internal/server/mailer"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/taskkeeper/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	repos       repomanager.RepositoryManager
	userService *services.UserService
	taskService *services.TaskService
	metrics     *metrics.Metrics
}

// NewApp opens storage, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	for _, w := range c.Warnings() {
		logger.Warn(ctx, w)
	}

	repos, err := repomanager.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	mail, err := mailer.New(ctx, c, logger)
	if err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("mailer init error: %w", err)
	}

	tokens := auth.NewTokenManager(c.SecretKey, c.AccessTokenValidityDuration)
	hasher := auth.NewBcryptHasher(c.BcryptCost)

	app := &App{
		config:      c,
		logger:      logger,
		repos:       repos,
		userService: services.NewUserService(repos, tokens, hasher, mail, c, logger),
		taskService: services.NewTaskService(repos, logger),
		metrics:     metrics.New(),
	}

	if c.BootstrapAdminEmail != "" {
		if err := app.userService.BootstrapAdmin(ctx, c.BootstrapAdminUserName, c.BootstrapAdminEmail, c.BootstrapAdminPassword); err != nil {
			_ = repos.Close(ctx)
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	handler := httpapi.NewServer(app.userService, app.taskService, app.repos, app.metrics, app.config, app.logger)
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      app.config.HTTPWriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.repos)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or one of the servers fails, then
// shuts both down and closes storage.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend, "mailer", app.config.Mailer)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Close(closeCtx); err != nil {
		app.logger.Error(closeCtx, "storage close", "error", err)
	}
	app.logger.Info(closeCtx, "App stopped")
}

// Users exposes the account service for one-shot commands.
func (app *App) Users() *services.UserService { return app.userService }

// Close releases the storage connection.
func (app *App) Close(ctx context.Context) error { return app.repos.Close(ctx) }
