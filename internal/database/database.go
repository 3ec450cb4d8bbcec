package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
)

// FoldFunc is the SQL function that case-folds a column for the
// case-insensitive filters. SQLite's LOWER only folds ASCII, so the sqlite
// driver registers a Unicode-aware fold and postgres gets a LOWER wrapper.
const FoldFunc = "fold"

const sqliteDriverName = "sqlite3_catalog"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(FoldFunc, fold, true)
		},
	})
}

// fold lowercases TEXT and BLOB values the way strings.ToLower does on the
// Go side. NULL folds to the empty string.
func fold(v any) string {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	case nil:
		return ""
	default:
		return strings.ToLower(fmt.Sprint(s))
	}
}

type Database struct {
	DB     *gorm.DB
	Driver config.DatabaseDriver
}

// Open connects to the configured driver and migrates the catalog schema.
func Open(cfg config.Database) (*Database, error) {
	var dialector gorm.Dialector
	var location string
	switch cfg.Driver {
	case config.DriverSQLite, "":
		dialector = SQLiteDialector(cfg.Path)
		location = cfg.Path
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
		dialector = postgres.Open(cfg.DSN)
		location = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverSQLite
	}

	zap.S().Infof("Database initialized successfully at %s", location)

	return &Database{DB: db, Driver: driver}, nil
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.Person{},
		&entities.Book{},
		&entities.Series{},
		&entities.SeriesMembership{},
		&entities.Credit{},
		&entities.Tag{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if db.Dialector.Name() == "postgres" {
		err = db.Exec("CREATE OR REPLACE FUNCTION " + FoldFunc + "(text) RETURNS text AS 'SELECT lower($1)' LANGUAGE SQL IMMUTABLE").Error
		if err != nil {
			return fmt.Errorf("failed to create %s function: %w", FoldFunc, err)
		}
	}
	return nil
}

// SQLiteDialector opens path through the catalog's sqlite driver, which
// carries the fold function.
func SQLiteDialector(path string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: SQLiteDSN(path)})
}

// SQLiteDSN enables foreign key enforcement so credit and membership rows
// follow their book or person on delete.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
