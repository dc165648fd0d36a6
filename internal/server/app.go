// Package server wires configuration, storage, the job queue and services
// together and runs either the API server (REST plus gRPC health) or the
// background worker.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/dmitrijs2005/filesmanager/internal/server/httpapi"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/dmitrijs2005/filesmanager/internal/server/worker"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/filesmanager/internal/server/grpc"
)

const (
	dbReadyAttempts     = 5
	dbReadyBackoff      = 500 * time.Millisecond
	sessionSweepPeriod  = 10 * time.Minute
	healthCheckInterval = 5 * time.Second
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	repos    repomanager.RepositoryManager
	blobs    blobstore.BlobStore
	sessions *sessions.Store
	queue    *queue.Queue
}

// NewApp connects to the database, applies migrations and opens the
// configured blob store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := dbx.WaitReady(ctx, db, dbReadyAttempts, dbReadyBackoff); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db is not reachable: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := blobstore.New(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	return newApp(c, logger, db, rm, blobs), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager, blobs blobstore.BlobStore) *App {
	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		repos:    rm,
		blobs:    blobs,
		sessions: sessions.NewStore(rm.KV(db), c.SessionTTL),
		queue: queue.New(rm.Jobs(db), queue.Options{
			Visibility:  c.QueueVisibilityTimeout,
			MaxAttempts: c.QueueMaxAttempts,
		}),
	}
}

// Close releases the database pool and the blob store client, if any.
func (app *App) Close() error {
	if closer, ok := app.blobs.(io.Closer); ok {
		_ = closer.Close()
	}
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// RunServer serves the REST API and the gRPC health endpoint until ctx is
// cancelled or a termination signal arrives.
func (app *App) RunServer(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	us := services.NewUserService(app.db, app.repos, app.sessions, app.logger)
	fs := services.NewFileService(app.db, app.repos, app.blobs, app.queue, app.logger)
	ss := services.NewStatusService(app.db, app.repos)

	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, us, fs, ss, app.config.ShutdownTimeout)
	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, ss, healthCheckInterval)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(ctx) })
	g.Go(func() error { return grpcServer.Run(ctx) })
	g.Go(func() error {
		app.sweepSessions(ctx, sessionSweepPeriod)
		return nil
	})

	return g.Wait()
}

// sweepSessions periodically deletes expired session entries.
func (app *App) sweepSessions(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.sessions.Sweep(ctx)
			if err != nil {
				app.logger.Warn(ctx, "session sweep failed", "error", err)
				continue
			}
			app.logger.Debug(ctx, "expired sessions removed", "count", n)
		}
	}
}

// RunWorker processes thumbnail and welcome jobs until ctx is cancelled or a
// termination signal arrives.
func (app *App) RunWorker(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting worker app...")
	app.initSignalHandler(cancelFunc)

	return app.newWorker().Run(ctx)
}

func (app *App) newWorker() *worker.Worker {
	w := worker.New(app.queue, app.logger, app.config.WorkerConcurrency, app.config.QueuePollInterval)
	w.Register(common.QueueThumbnails, worker.NewThumbnailHandler(app.repos.Files(app.db), app.blobs, app.logger))
	w.Register(common.QueueWelcome, worker.NewWelcomeHandler(app.repos.Users(app.db), app.logger))
	return w
}
