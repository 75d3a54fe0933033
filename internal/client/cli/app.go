package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/client"
	"github.com/dmitrijs2005/daybook/internal/client/config"
	"github.com/dmitrijs2005/daybook/internal/client/media"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/entries"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/daybook/internal/client/services"
	"github.com/dmitrijs2005/daybook/internal/client/storage"
	"github.com/dmitrijs2005/daybook/internal/client/syncer"
	"github.com/dmitrijs2005/daybook/internal/filex"
	"github.com/dmitrijs2005/daybook/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	log    logging.Logger

	db      *sql.DB
	remote  client.Client
	entries entries.Repository
	meta    metadata.Repository

	engine       *syncer.Engine
	trigger      *services.Trigger
	authService  services.AuthService
	entryService services.EntryService

	Mode   Mode
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
}

// NewApp opens the journal at c.DatabasePath and, when a server address is
// configured, connects the sync client. Close releases both.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)

	if c.DatabasePath != storage.InMemory {
		if err := filex.EnsureParent(c.DatabasePath); err != nil {
			return nil, err
		}
	}

	db, err := storage.Open(ctx, c.DatabasePath, c.StorageQuota)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	entryRepo := entries.NewSQLiteRepository(db)
	draftRepo := drafts.NewSQLiteRepository(db)
	metaRepo := metadata.NewSQLiteRepository(db)

	var remote client.Client
	if c.ServerEndpointAddr != "" {
		gc, err := client.NewGRPCClient(ctx, c.ServerEndpointAddr, client.NewMetadataTokenStore(metaRepo))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		remote = gc
	}

	engine := syncer.New(entryRepo, metaRepo, remote,
		syncer.WithLogger(log.With("module", "syncer")),
		syncer.WithCallTimeout(c.SyncCallTimeout),
	)
	trigger := services.NewTrigger(ctx, engine, log.With("module", "trigger"))

	a := &App{
		config:      c,
		log:         log,
		db:          db,
		remote:      remote,
		entries:     entryRepo,
		meta:        metaRepo,
		engine:      engine,
		trigger:     trigger,
		authService: services.NewAuthService(remote, metaRepo, entryRepo, engine, trigger),
		entryService: services.NewEntryService(entryRepo, draftRepo, metaRepo, media.NewPipeline(log),
			services.WithRemote(remote),
			services.WithKicker(trigger),
			services.WithLogger(log.With("module", "entries")),
		),
		reader: bufio.NewReader(in),
		out:    out,
		now:    time.Now,
	}
	return a, nil
}

// Close waits for background syncs, then closes the connection and the
// database.
func (a *App) Close() error {
	if a.trigger != nil {
		a.trigger.Wait()
	}
	var errs []error
	if a.remote != nil {
		errs = append(errs, a.remote.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) setMode(ctx context.Context, mode Mode) bool {
	if a.Mode == mode {
		return false
	}
	a.Mode = mode
	a.log.Info(ctx, "connectivity changed", "mode", mode)
	return true
}

// checkOnline pings the server once and kicks a sync on the transition to
// online while signed in.
func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	if a.setMode(ctx, ModeOnline) {
		if ok, _ := a.authService.IsSignedIn(ctx); ok {
			a.trigger.Kick()
		}
	}
}

// StartOnlineStatusWatcher polls the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
