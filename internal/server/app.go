// Package server wires the journal backend together: configuration, the
// Postgres repositories, S3 media storage and the gRPC and HTTP servers.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/server/blob"
	"github.com/dmitrijs2005/daybook/internal/server/config"
	"github.com/dmitrijs2005/daybook/internal/server/httpx"
	"github.com/dmitrijs2005/daybook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/daybook/internal/server/services"

	gs "github.com/dmitrijs2005/daybook/internal/server/grpc"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	userService  *services.UserService
	entryService *services.EntryService
	blobs        blob.Store
}

// NewApp opens the database, applies migrations and prepares the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := blob.NewS3Store(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		userService:  services.NewUserService(db, rm, c),
		entryService: services.NewEntryService(db, rm, store, logger.With("module", "entries")),
		blobs:        store,
	}, nil
}

// Run serves gRPC and HTTP until ctx is cancelled or either server fails.
func (app *App) Run(ctx context.Context) error {
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.entryService, app.config.SecretKey)
	g.Go(func() error { return grpcServer.Run(ctx) })

	router := httpx.NewRouter(app.blobs, app.db.PingContext, app.logger)
	httpServer := httpx.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.logger)
	g.Go(func() error { return httpServer.Run(ctx) })

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
