package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// ClassifierTagger re-runs the classifier lookup for a cataloged book.
//
// Implemented by importers.ISBNImporter.
type ClassifierTagger interface {
	RefreshClassifierTags(ctx context.Context, bookID uint, isbn string) error
}

// RefreshClassifiersTask attaches classifier tags to a book imported while
// the classifier service was down.
type RefreshClassifiersTask struct {
	BookID uint   `json:"book_id"`
	ISBN   string `json:"isbn"`
}

// Config returns the queue configuration for classifier refresh tasks.
// The service may stay down for a while, so attempts are spread out.
func (t RefreshClassifiersTask) Config() backlite.QueueConfig {
	return catalogQueue("refresh_classifiers", 5, 10*time.Minute)
}

// RefreshClassifiersProcessor creates a processor function for RefreshClassifiersTask.
func RefreshClassifiersProcessor(tagger ClassifierTagger) backlite.QueueProcessor[RefreshClassifiersTask] {
	return func(ctx context.Context, task RefreshClassifiersTask) error {
		if tagger == nil {
			return fmt.Errorf("classifier tagger not configured")
		}

		if err := tagger.RefreshClassifierTags(ctx, task.BookID, task.ISBN); err != nil {
			return fmt.Errorf("refresh classifiers for book %d: %w", task.BookID, err)
		}

		zap.S().Infof("[TASK] Refreshed classifier tags for book %d (ISBN %s)", task.BookID, task.ISBN)
		return nil
	}
}

// NewRefreshClassifiersQueue creates a backlite queue for classifier refresh tasks.
func NewRefreshClassifiersQueue(tagger ClassifierTagger) backlite.Queue {
	return backlite.NewQueue(RefreshClassifiersProcessor(tagger))
}
