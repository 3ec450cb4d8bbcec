package tasks

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/catalog/internal/config"
)

// Config sizes the worker pool. Attempts, backoff and retention are set per
// queue by the task types.
type Config struct {
	Workers         int
	ReleaseAfter    time.Duration // stuck tasks go back to the queue after this
	CleanupInterval time.Duration // how often expired task rows are purged
}

func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// ConfigFrom overlays the non-zero application settings on DefaultConfig.
func ConfigFrom(cfg config.Tasks) Config {
	out := DefaultConfig()
	if cfg.Workers > 0 {
		out.Workers = cfg.Workers
	}
	if cfg.ReleaseAfter > 0 {
		out.ReleaseAfter = cfg.ReleaseAfter
	}
	if cfg.CleanupInterval > 0 {
		out.CleanupInterval = cfg.CleanupInterval
	}
	return out
}

// DBPath places the queue next to the catalog: catalog.db keeps its tasks in
// catalog-tasks.db.
func DBPath(catalogPath string) string {
	ext := filepath.Ext(catalogPath)
	return strings.TrimSuffix(catalogPath, ext) + "-tasks" + ext
}

// catalogQueue is the queue shape shared by the catalog jobs. Finished
// tasks are kept for a day, with payloads only for the failures.
func catalogQueue(name string, attempts int, backoff time.Duration) backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        name,
		MaxAttempts: attempts,
		Backoff:     backoff,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}
