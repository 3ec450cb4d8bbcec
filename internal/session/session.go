// Package session keeps per-browser state between requests. The catalog has
// no accounts, so the session only carries flash messages.
package session

import (
	"context"
	"database/sql"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/mrlokans/catalog/internal/config"
)

const flashKey = "flashes"

// FlashKind selects the styling of a flash message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Kind    FlashKind
	Message string
}

func init() {
	gob.Register([]Flash{})
}

// Manager wraps scs.SessionManager with flash message helpers.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a session manager. Sessions live in the sessions table
// of sqlDB, or in memory when sqlDB is nil.
func NewManager(sqlDB *sql.DB, cfg config.Security) (*Manager, error) {
	sm := scs.New()

	if sqlDB != nil {
		_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
		if err != nil {
			return nil, fmt.Errorf("failed to create sessions table: %w", err)
		}
		sm.Store = sqlite3store.New(sqlDB)
	} else {
		sm.Store = memstore.New()
	}

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime

	sm.Cookie.Name = "catalog_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// AddFlash queues a message for the next page.
func (m *Manager) AddFlash(ctx context.Context, kind FlashKind, message string) {
	flashes, _ := m.Get(ctx, flashKey).([]Flash)
	m.Put(ctx, flashKey, append(flashes, Flash{Kind: kind, Message: message}))
}

// PopFlashes returns and clears the queued messages.
func (m *Manager) PopFlashes(ctx context.Context) []Flash {
	flashes, _ := m.Pop(ctx, flashKey).([]Flash)
	return flashes
}
