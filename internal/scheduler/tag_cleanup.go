package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/config"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// OrphanTagsCleaner deletes tags no book uses.
type OrphanTagsCleaner interface {
	DeleteOrphanTags() (int64, error)
}

// CleanupEnqueuer hands the cleanup to the background task queue.
type CleanupEnqueuer interface {
	EnqueueOrphanTagCleanup(ctx context.Context) error
}

// ValidateSchedule checks a five field cron expression or descriptor.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// TagCleanupScheduler periodically removes orphan tags
type TagCleanupScheduler struct {
	cfg     config.TagCleanup
	cleaner OrphanTagsCleaner
	queue   CleanupEnqueuer
	queueMu sync.RWMutex

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewTagCleanupScheduler creates a new scheduler instance
func NewTagCleanupScheduler(cfg config.TagCleanup, cleaner OrphanTagsCleaner) *TagCleanupScheduler {
	return &TagCleanupScheduler{
		cfg:     cfg,
		cleaner: cleaner,
		cron:    cron.New(cron.WithParser(parser)),
	}
}

// SetQueue routes scheduled runs through the task queue instead of running inline.
func (s *TagCleanupScheduler) SetQueue(queue CleanupEnqueuer) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	s.queue = queue
}

// Start begins the scheduler if cleanup is enabled
func (s *TagCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		zap.S().Info("Tag cleanup scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if err := s.RunNow(context.Background()); err != nil {
			zap.S().Errorf("Tag cleanup failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule tag cleanup: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	zap.S().Infof("Tag cleanup scheduler: started with schedule '%s'. Next run: %v",
		s.cfg.Schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *TagCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	zap.S().Info("Tag cleanup scheduler: stopped")
}

// RunNow performs one cleanup, through the queue when one is set.
func (s *TagCleanupScheduler) RunNow(ctx context.Context) error {
	s.queueMu.RLock()
	queue := s.queue
	s.queueMu.RUnlock()

	if queue != nil {
		return queue.EnqueueOrphanTagCleanup(ctx)
	}

	deleted, err := s.cleaner.DeleteOrphanTags()
	if err != nil {
		return fmt.Errorf("cleanup orphan tags: %w", err)
	}
	zap.S().Infof("Tag cleanup: removed %d orphan tags", deleted)
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *TagCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur
func (s *TagCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	next := entry.Next
	return &next
}
