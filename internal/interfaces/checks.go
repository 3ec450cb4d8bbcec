package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/catalog/internal/covers"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/credits"
	"github.com/mrlokans/catalog/internal/database/persons"
	"github.com/mrlokans/catalog/internal/database/series"
	"github.com/mrlokans/catalog/internal/database/tags"
	"github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/importers"
	"github.com/mrlokans/catalog/internal/metadata"
	"github.com/mrlokans/catalog/internal/scheduler"
	"github.com/mrlokans/catalog/internal/seed"
	"github.com/mrlokans/catalog/internal/services"
	"github.com/mrlokans/catalog/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// HTTP stores
var _ http.BookStore = (*books.Repository)(nil)
var _ http.PersonStore = (*persons.Repository)(nil)
var _ http.CreditStore = (*credits.Repository)(nil)
var _ http.TagStore = (*tags.Repository)(nil)

// Import stores
var _ importers.BookStore = (*books.Repository)(nil)
var _ importers.PersonStore = (*persons.Repository)(nil)
var _ importers.TagStore = (*tags.Repository)(nil)

// Seed stores
var _ seed.BookStore = (*books.Repository)(nil)
var _ seed.PersonStore = (*persons.Repository)(nil)
var _ seed.TagStore = (*tags.Repository)(nil)
var _ seed.SeriesStore = (*series.Repository)(nil)

// Bulk editing
var _ services.BookEditor = (*books.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ importers.MetadataSource = (*metadata.OpenLibraryClient)(nil)
var _ covers.URLResolver = (*metadata.OpenLibraryClient)(nil)
var _ http.CoverInvalidator = (*covers.Cache)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ importers.ClassifierRefreshQueue = (*tasks.Client)(nil)
var _ scheduler.CleanupEnqueuer = (*tasks.Client)(nil)
var _ tasks.ClassifierTagger = (*importers.ISBNImporter)(nil)
var _ tasks.OrphanTagsCleaner = (*tags.Repository)(nil)
var _ scheduler.OrphanTagsCleaner = (*tags.Repository)(nil)
var _ http.SchedulerStatus = (*scheduler.TagCleanupScheduler)(nil)
