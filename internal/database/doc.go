// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (SQLite or PostgreSQL), migrations
//	├── books/           # Books, listing scopes, credits on a book
//	├── credits/         # Editing a single credit
//	├── persons/         # Credited persons
//	├── series/          # Series and their members
//	└── tags/            # Tag management and associations
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.Open(cfg.Database)
//
//	booksRepo := books.NewRepository(db.DB)
//	tagsRepo := tags.NewRepository(db.DB)
//
//	book, err := booksRepo.GetBookByID(123)
//	err = tagsRepo.AddTagToBooks([]uint{3, 5}, tag.ID)
//
// Lookups by primary key return gorm.ErrRecordNotFound for missing rows.
// FindBookByISBN returns nil, nil for an ISBN that is not cataloged.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the entities in Migrate
//  5. Add a compile-time check to internal/interfaces/checks.go
package database
