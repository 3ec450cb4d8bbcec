package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// Client runs the catalog's background jobs on a backlite queue kept in its
// own SQLite file beside the catalog.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	workers int
	started atomic.Bool
}

// NewClient opens (and installs) the task queue beside the catalog at
// catalogPath. Queues must be registered before Start.
func NewClient(catalogPath string, cfg Config) (*Client, error) {
	db, err := sql.Open("sqlite3", DBPath(catalogPath)+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          zapLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	return &Client{queue: queue, db: db, workers: cfg.Workers}, nil
}

func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start processes tasks until ctx is done or Stop is called. Later calls
// are ignored.
func (c *Client) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	zap.S().Infof("Task queue started with %d workers", c.workers)
	c.queue.Start(ctx)
}

// Stop waits for running tasks until ctx expires. It reports whether every
// worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.started.Load() {
		return true
	}
	if !c.queue.Stop(ctx) {
		zap.S().Warn("Task queue stopped before all tasks finished")
		return false
	}
	zap.S().Info("Task queue stopped")
	return true
}

func (c *Client) Close() error {
	return c.db.Close()
}

// Add enqueues arbitrary tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.queue.Add(tasks...)
}

// EnqueueClassifierRefresh retries the classifier lookup of a book later.
func (c *Client) EnqueueClassifierRefresh(ctx context.Context, bookID uint, isbn string) error {
	if _, err := c.queue.Add(RefreshClassifiersTask{BookID: bookID, ISBN: isbn}).Ctx(ctx).Save(); err != nil {
		return fmt.Errorf("enqueue classifier refresh for book %d: %w", bookID, err)
	}
	return nil
}

// EnqueueOrphanTagCleanup requests one orphan tag sweep.
func (c *Client) EnqueueOrphanTagCleanup(ctx context.Context) error {
	if _, err := c.queue.Add(CleanupOrphanTagsTask{QueuedAt: time.Now()}).Ctx(ctx).Save(); err != nil {
		return fmt.Errorf("enqueue orphan tag cleanup: %w", err)
	}
	return nil
}

// zapLogger routes backlite's own messages to the global zap logger.
type zapLogger struct{}

func (zapLogger) Info(message string, params ...any) {
	zap.S().Infow("[TASK] "+message, params...)
}

func (zapLogger) Error(message string, params ...any) {
	zap.S().Errorw("[TASK] "+message, params...)
}
