package entrypoint

import (
	"fmt"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/credits"
	"github.com/mrlokans/catalog/internal/database/persons"
	"github.com/mrlokans/catalog/internal/database/series"
	"github.com/mrlokans/catalog/internal/database/tags"
	"github.com/mrlokans/catalog/internal/importers"
	"github.com/mrlokans/catalog/internal/metadata"
	"github.com/mrlokans/catalog/internal/seed"
	"github.com/mrlokans/catalog/internal/services"
)

// App holds the catalog components shared by the server and the CLI commands.
type App struct {
	Config   *config.Config
	Database *database.Database

	Books   *books.Repository
	Persons *persons.Repository
	Credits *credits.Repository
	Tags    *tags.Repository
	Series  *series.Repository

	OpenLibrary   *metadata.OpenLibraryClient
	ISBNImporter  *importers.ISBNImporter
	TitleImporter *importers.TitleImporter
	BulkEditor    *services.BulkEditService
}

// NewApp opens the configured database and builds the repositories and
// services on top of it.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:      cfg,
		Database:    db,
		Books:       books.NewRepository(db.DB),
		Persons:     persons.NewRepository(db.DB),
		Credits:     credits.NewRepository(db.DB),
		Tags:        tags.NewRepository(db.DB),
		Series:      series.NewRepository(db.DB),
		OpenLibrary: metadata.NewOpenLibraryClient(cfg.OpenLibrary),
	}
	app.ISBNImporter = importers.NewISBNImporter(app.OpenLibrary, app.Books, app.Persons, app.Tags, cfg.Catalog.SortNameFormat)
	app.TitleImporter = importers.NewTitleImporter(app.Books, app.Persons)
	app.BulkEditor = services.NewBulkEditService(app.Books)

	return app, nil
}

// Seeder writes YAML fixtures through the app repositories.
func (a *App) Seeder() *seed.Seeder {
	return &seed.Seeder{
		Books:          a.Books,
		Persons:        a.Persons,
		Tags:           a.Tags,
		Series:         a.Series,
		SortNameFormat: a.Config.Catalog.SortNameFormat,
	}
}

func (a *App) Close() error {
	return a.Database.Close()
}
