package entrypoint

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/covers"
	http_controllers "github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/scheduler"
	"github.com/mrlokans/catalog/internal/session"
	"github.com/mrlokans/catalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	listenErr := make(chan error, 1)
	go func() {
		zap.S().Infof("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	zap.S().Infof("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	zap.S().Info("Server exiting")
	return nil
}

// Run wires the catalog together and serves it.
func Run(cfg *config.Config, version string) error {
	zap.S().Infof("Starting Catalog v%s", version)

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			zap.S().Errorf("Error closing database: %v", err)
		}
	}()

	coverCache, err := covers.NewCache(cfg.Covers.Dir, app.OpenLibrary)
	if err != nil {
		zap.S().Warnf("Failed to initialize cover cache: %v", err)
		coverCache = nil
	} else {
		zap.S().Infof("Cover cache initialized at %s", coverCache.CacheDir())
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				zap.S().Errorf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewRefreshClassifiersQueue(app.ISBNImporter),
			tasks.NewCleanupOrphanTagsQueue(app.Tags),
		)
		app.ISBNImporter.SetRefreshQueue(taskClient)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	tagCleanup := scheduler.NewTagCleanupScheduler(cfg.TagCleanup, app.Tags)
	if taskClient != nil {
		tagCleanup.SetQueue(taskClient)
	}
	if err := tagCleanup.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start tag cleanup scheduler: %w", err)
	}

	// Sessions share the catalog file on SQLite and stay in memory otherwise
	var sessionDB *sql.DB
	if cfg.Database.Driver != config.DriverPostgres {
		sessionDB, err = app.Database.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get SQL DB for sessions: %w", err)
		}
	}
	sessionManager, err := session.NewManager(sessionDB, cfg.Security)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}

	csrfSecret := decodeSecret(cfg.Security.CSRFSecret)
	if csrfSecret == nil {
		zap.S().Warn("CSRF_SECRET is not set, form submissions are not CSRF protected")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:          app.Books,
		Persons:        app.Persons,
		Credits:        app.Credits,
		Tags:           app.Tags,
		Database:       app.Database,
		PageSize:       cfg.Catalog.PageSize,
		ISBNImporter:   app.ISBNImporter,
		TitleImporter:  app.TitleImporter,
		BulkEditor:     app.BulkEditor,
		CoverCache:     coverCache,
		TagCleanup:     tagCleanup,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Security.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		tagCleanup.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	return Serve(router, cfg, onShutdown)
}

// decodeSecret accepts a hex encoded secret and falls back to the raw bytes.
func decodeSecret(secret string) []byte {
	if secret == "" {
		return nil
	}
	if decoded, err := hex.DecodeString(secret); err == nil {
		return decoded
	}
	return []byte(secret)
}
