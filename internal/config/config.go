package config

import (
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Catalog
		OpenLibrary
		Covers
		Logging
		Security
		Tasks
		TagCleanup
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // SQLite file, also used to derive the task queue database path
		DSN    string // PostgreSQL connection string
	}
	UI struct {
		TemplatesPath string // Empty means the templates embedded in the binary
		StaticPath    string
	}
	Catalog struct {
		SortNameFormat string // Layout used to derive Person.SortName at import time
		PageSize       int
	}
	OpenLibrary struct {
		BaseURL string
		Timeout time.Duration
		Rate    float64 // Requests per second
	}
	Covers struct {
		Dir string
	}
	Logging struct {
		Level  string
		Format string // json or console
	}
	Security struct {
		CSRFSecret      string
		SecureCookies   bool
		SessionLifetime time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	TagCleanup struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_driver", string(DriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "")
	v.SetDefault("sort_name_format", DefaultSortNameFormat)
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("openlibrary_base_url", DefaultOpenLibraryBaseURL)
	v.SetDefault("openlibrary_timeout", "10s")
	v.SetDefault("openlibrary_rate", 1.0)
	v.SetDefault("covers_dir", "./covers")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	// Security defaults
	v.SetDefault("csrf_secret", "") // CSRF protection disabled when empty
	v.SetDefault("secure_cookies", false)
	v.SetDefault("session_lifetime", "24h")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("tag_cleanup_enabled", true)
	v.SetDefault("tag_cleanup_schedule", "0 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Catalog: Catalog{
			SortNameFormat: v.GetString("SORT_NAME_FORMAT"),
			PageSize:       v.GetInt("PAGE_SIZE"),
		},
		OpenLibrary: OpenLibrary{
			BaseURL: v.GetString("OPENLIBRARY_BASE_URL"),
			Timeout: v.GetDuration("OPENLIBRARY_TIMEOUT"),
			Rate:    v.GetFloat64("OPENLIBRARY_RATE"),
		},
		Covers: Covers{
			Dir: v.GetString("COVERS_DIR"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Security: Security{
			CSRFSecret:      v.GetString("CSRF_SECRET"),
			SecureCookies:   v.GetBool("SECURE_COOKIES"),
			SessionLifetime: v.GetDuration("SESSION_LIFETIME"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		TagCleanup: TagCleanup{
			Enabled:  v.GetBool("TAG_CLEANUP_ENABLED"),
			Schedule: v.GetString("TAG_CLEANUP_SCHEDULE"),
		},
	}
}
