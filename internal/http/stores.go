package http

import (
	"time"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/filters"
)

// This file consolidates the store interfaces used by the HTTP controllers.
// The gorm repositories under internal/database implement them.

// BookGetter provides read access to books.
type BookGetter interface {
	GetBookByID(id uint) (*entities.Book, error)
}

// BookStore is what the catalog and book pages need from the books repository.
type BookStore interface {
	BookGetter
	GetBookByUUID(uuid string) (*entities.Book, error)
	GetBooksByIDs(ids []uint) ([]entities.Book, error)
	CountBooks(scopes []filters.Scope) (int64, error)
	ListBooks(scopes []filters.Scope, offset, limit int) ([]entities.Book, error)
	UpdateBook(book *entities.Book) error
	UpdateBookFields(id uint, fields map[string]any) error
	DeleteBook(id uint) error
}

// PersonStore lists the persons offered by the manual import form.
type PersonStore interface {
	ListPersons() ([]entities.Person, error)
}

// CreditStore provides the credit pages.
type CreditStore interface {
	GetCreditByID(id uint) (*entities.Credit, error)
	UpdateCredit(id uint, role entities.Role, order int) error
	DeleteCredit(id uint) error
}

// TagStore attaches tags to one or many books and detaches them again.
type TagStore interface {
	ListTags() ([]entities.Tag, error)
	GetTagByID(id uint) (*entities.Tag, error)
	GetOrCreateTag(value string) (*entities.Tag, error)
	AddTagToBook(bookID, tagID uint) error
	AddTagToBooks(bookIDs []uint, tagID uint) error
	RemoveTagFromBook(bookID, tagID uint) error
}

// CoverInvalidator drops cached covers when a book's ISBN changes.
type CoverInvalidator interface {
	InvalidateCover(isbn string) error
}

// SchedulerStatus reports on the periodic tag cleanup for /health.
type SchedulerStatus interface {
	IsRunning() bool
	GetNextRunTime() *time.Time
}
