package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// OrphanTagsCleaner deletes tags that no book carries.
type OrphanTagsCleaner interface {
	DeleteOrphanTags() (int64, error)
}

// CleanupOrphanTagsTask sweeps tags left behind by removed tags and deleted
// books. QueuedAt records when the sweep was requested.
type CleanupOrphanTagsTask struct {
	QueuedAt time.Time `json:"queued_at"`
}

// Config runs a sweep once. The next cron tick retries anyway.
func (t CleanupOrphanTagsTask) Config() backlite.QueueConfig {
	return catalogQueue("cleanup_orphan_tags", 1, time.Minute)
}

// CleanupOrphanTagsProcessor sweeps orphan tags. Empty sweeps are only
// logged at debug level.
func CleanupOrphanTagsProcessor(cleaner OrphanTagsCleaner) backlite.QueueProcessor[CleanupOrphanTagsTask] {
	return func(ctx context.Context, task CleanupOrphanTagsTask) error {
		if cleaner == nil {
			return errors.New("orphan tags cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphanTags()
		if err != nil {
			return fmt.Errorf("sweep orphan tags: %w", err)
		}

		log := zap.S().With("task", "cleanup_orphan_tags", "removed", deleted)
		if !task.QueuedAt.IsZero() {
			log = log.With("waited", time.Since(task.QueuedAt).Round(time.Second))
		}
		if deleted == 0 {
			log.Debug("No orphan tags to remove")
			return nil
		}
		log.Infof("Removed %d tag(s) no book carries", deleted)
		return nil
	}
}

func NewCleanupOrphanTagsQueue(cleaner OrphanTagsCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanTagsProcessor(cleaner))
}
