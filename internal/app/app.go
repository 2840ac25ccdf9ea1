// Package app assembles the daybook application: local store, journal
// service, cloud provider, sync coordinator, backup manager and the
// interactive shell, plus their startup and shutdown ordering.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dmitrijs2005/daybook/internal/backup"
	"github.com/dmitrijs2005/daybook/internal/cli"
	"github.com/dmitrijs2005/daybook/internal/cloud"
	"github.com/dmitrijs2005/daybook/internal/config"
	"github.com/dmitrijs2005/daybook/internal/filex"
	"github.com/dmitrijs2005/daybook/internal/journal"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/sectiontypes"
	"github.com/dmitrijs2005/daybook/internal/store"
	syncer "github.com/dmitrijs2005/daybook/internal/sync"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	logCloser io.Closer
	store     *store.Store
	provider  cloud.Provider
	coord     *syncer.Coordinator
	backups   *backup.Manager
	shell     *cli.App
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir init error: %w", err)
	}

	logger, logCloser, err := logging.NewRotatingFile(logging.FileConfig{
		Dir:   filepath.Join(dataDir, "logs"),
		Debug: c.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	dsn := c.StoreDSN
	if dsn == "" && (c.StoreBackend == store.BackendSQLite || c.StoreBackend == "") {
		dsn = filepath.Join(dataDir, "daybook.db")
	}

	st, err := store.Open(ctx, store.Config{Backend: c.StoreBackend, DSN: dsn}, logger)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	journalSvc := journal.NewService(st, sectiontypes.NewRegistry(), logger)

	provider, creds, err := newProvider(c, st, logger)
	if err != nil {
		return nil, err
	}

	coord := syncer.NewCoordinator(st, provider, nil, syncer.Config{
		Debounce: c.SyncDebounce,
		AutoSync: c.AutoSync,
		OnReload: func() { logger.Info(ctx, "local data replaced from cloud") },
	}, logger)
	st.SetOnChange(coord.DataChanged)

	backups := backup.NewManager(st, provider, coord, st.Repos().Metadata, backup.Config{
		Interval:    c.BackupInterval,
		MinInterval: c.BackupMinInterval,
		MaxBackups:  c.MaxBackups,
	}, logger)

	shell := cli.NewApp(journalSvc, coord, backups, creds, c.ProviderInitTimeout, logger)

	return &App{
		config:    c,
		logger:    logger,
		logCloser: logCloser,
		store:     st,
		provider:  provider,
		coord:     coord,
		backups:   backups,
		shell:     shell,
	}, nil
}

// newProvider selects the cloud adapter. The API provider authenticates
// interactively, so it is also returned as a credentials sink for the shell;
// S3 takes everything from config.
func newProvider(c *config.Config, st *store.Store, logger logging.Logger) (cloud.Provider, cli.CredentialsSetter, error) {
	switch c.CloudProvider {
	case "s3", "":
		p := cloud.NewS3Provider(cloud.S3Config{
			Region:       c.S3Region,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
		}, logger)
		return p, nil, nil
	case "api":
		shelf := cloud.NewSessionShelf(st.Repos().Metadata)
		p := cloud.NewAPIProvider(cloud.APIConfig{BaseURL: c.APIBaseURL}, shelf, logger)
		return p, p, nil
	default:
		return nil, nil, fmt.Errorf("unknown cloud provider: %q", c.CloudProvider)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// connectOnStartup tries to resume a cloud session so the journal comes up
// already syncing. Failure is not fatal: the app continues with local data
// and the user can connect from the shell later.
func (app *App) connectOnStartup(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, app.config.ProviderInitTimeout)
	defer cancel()

	if err := app.coord.Connect(cctx); err != nil {
		app.logger.Info(ctx, "cloud unavailable, continuing with local data", "error", err)
	}
}

// Run brings the application up and blocks in the interactive shell until
// the user exits or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")
	app.initSignalHandler(cancelFunc)

	if err := app.store.Ready(ctx); err != nil {
		return fmt.Errorf("store not ready: %w", err)
	}

	app.connectOnStartup(ctx)
	app.backups.Start(ctx)

	app.shell.Run(ctx)
	cancelFunc()

	return app.shutdown(ctx)
}

// shutdownTimeout bounds how long shutdown waits for in-flight syncs and
// backups.
const shutdownTimeout = 15 * time.Second

// shutdown stops the engines in dependency order: no new syncs, no new
// backups, then the store and the log file.
func (app *App) shutdown(ctx context.Context) error {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	app.logger.Info(sctx, "shutting down")

	if err := app.coord.Shutdown(sctx); err != nil {
		app.logger.Error(sctx, "sync shutdown failed", "error", err)
	}
	if err := app.backups.Shutdown(sctx); err != nil {
		app.logger.Error(sctx, "backup shutdown failed", "error", err)
	}
	if err := app.store.Close(); err != nil {
		app.logger.Error(sctx, "store close failed", "error", err)
	}
	return app.logCloser.Close()
}
