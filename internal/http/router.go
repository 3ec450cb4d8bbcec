package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/security"
	"github.com/mrlokans/catalog/web"
)

// loadTemplates parses the page templates from path, or the embedded copies
// when path is empty.
func loadTemplates(path string) *template.Template {
	tmpl := template.New("").Funcs(templateFuncs())
	if path == "" {
		return template.Must(tmpl.ParseFS(web.Templates, "templates/*.html"))
	}
	return template.Must(tmpl.ParseGlob(path + "/*.html"))
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(security.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(security.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.Middleware())
	}

	router.SetHTMLTemplate(loadTemplates(cfg.TemplatesPath))

	// Serve static files
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	} else {
		router.StaticFS("/static", http.FS(web.Static()))
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	if cfg.TagCleanup != nil {
		health.SetTagCleanup(cfg.TagCleanup)
	}
	catalog := NewCatalogController(cfg.Books, cfg.Tags, cfg.Filters, cfg.PageSize, cfg.SessionManager)
	books := NewBooksController(cfg.Books, cfg.Tags, cfg.SessionManager)
	if cfg.CoverCache != nil {
		books.SetCoverInvalidator(cfg.CoverCache)
	}
	credits := NewCreditsController(cfg.Credits, cfg.SessionManager)
	imports := NewImportsController(cfg.Persons, cfg.TitleImporter, cfg.ISBNImporter, cfg.SessionManager)
	records := NewRecordsController(cfg.Books, cfg.BulkEditor, cfg.SessionManager)

	// Health endpoint
	router.GET("/health", health.Status)

	// Listing and bulk actions
	router.GET("/", catalog.Index)
	router.POST("/", catalog.Post)

	// Imports
	router.GET("/import", imports.ManualForm)
	router.POST("/import", imports.ManualImport)
	router.GET("/isbn_import", imports.ISBNForm)
	router.POST("/isbn_import", imports.ISBNImport)

	// Bulk edit
	router.GET("/records", records.Edit)
	router.POST("/records", records.Apply)

	// Books
	router.GET("/find", books.Find)
	router.GET("/books/:id", books.Show)
	router.POST("/books/:id/delete", books.Delete)
	router.POST("/books/:id/tags", books.AddTag)
	router.POST("/books/:id/tags/:tag_id/delete", books.RemoveTag)
	router.GET("/books/:id/metadata", books.EditMetadata)
	router.POST("/books/:id/metadata", books.UpdateMetadata)
	router.GET("/books/:id/fields/:field", books.ShowField)
	router.GET("/books/:id/fields/:field/edit", books.EditField)
	router.POST("/books/:id/fields/:field/edit", books.UpdateField)

	// Book cover endpoint
	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.Books)
		router.GET("/books/:id/cover", coversController.GetCover)
	}

	// Credits
	router.GET("/credits/:id", credits.Show)
	router.GET("/credits/:id/edit", credits.Edit)
	router.POST("/credits/:id/edit", credits.Update)
	router.POST("/credits/:id/delete", credits.Delete)

	return router
}
