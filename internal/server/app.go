// Package server wires configuration, storage backends and services together
// and runs the HTTP server until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/rest"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  *repomanager.Manager
	server *rest.RESTServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	repos, err := repomanager.NewRepositoryManager(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us, err := services.NewUserService(repos, c, logger)
	if err != nil {
		_ = repos.Close(ctx)
		return nil, err
	}
	cs := services.NewCartService(repos)
	ors := services.NewOrderService(repos, logger)
	ps := services.NewProductService(repos, logger)

	if c.ProductsSeedFile != "" {
		if _, err := ps.Seed(ctx, c.ProductsSeedFile); err != nil {
			logger.Warn(ctx, "catalog seed failed", "file", c.ProductsSeedFile, "error", err.Error())
		}
	}

	return &App{
		config: c,
		logger: logger,
		repos:  repos,
		server: rest.NewRESTServer(c, logger, us, cs, ors, ps),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a signal arrives, then releases
// storage connections.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(gctx)
	})

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err.Error())
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
	defer cancel()
	if cerr := app.repos.Close(closeCtx); cerr != nil {
		app.logger.Error(ctx, "storage close error", "error", cerr.Error())
	}

	app.logger.Info(ctx, "App stopped")
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}

	return err
}
