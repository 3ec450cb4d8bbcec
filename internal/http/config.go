package http

import (
	"github.com/mrlokans/catalog/internal/covers"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/filters"
	"github.com/mrlokans/catalog/internal/importers"
	"github.com/mrlokans/catalog/internal/services"
	"github.com/mrlokans/catalog/internal/session"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    BookStore
	Persons  PersonStore
	Credits  CreditStore
	Tags     TagStore
	Database *database.Database

	// Listing
	Filters  filters.Registry // nil means filters.DefaultRegistry
	PageSize int

	// Imports and editing
	ISBNImporter  *importers.ISBNImporter
	TitleImporter *importers.TitleImporter
	BulkEditor    *services.BulkEditService

	// Cover caching (optional)
	CoverCache *covers.Cache

	// Periodic tag cleanup, reported on /health (optional)
	TagCleanup SchedulerStatus

	// Sessions and forms
	SessionManager *session.Manager
	CSRFSecret     []byte
	SecureCookies  bool

	// UI paths, empty means the assets embedded in the binary
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
