package services

import "github.com/mrlokans/catalog/internal/entities"

// BookReader provides read-only access to books.
type BookReader interface {
	GetBookByID(id uint) (*entities.Book, error)
	GetBooksByIDs(ids []uint) ([]entities.Book, error)
}

// BookWriter persists changes to a single book.
type BookWriter interface {
	UpdateBookFields(id uint, fields map[string]any) error
}

// BookEditor reads and writes books.
//
// Implemented by books.Repository.
type BookEditor interface {
	BookReader
	BookWriter
}
