// Package books provides database operations for catalog books and their credits.
//
// This package implements the BookStore interfaces defined in internal/http.
//
// # Interface Implementation
//
//	var _ http.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	page, err := repo.ListBooks(scopes, 0, 10)
package books

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/catalog/internal/entities"
)

// Scope narrows a book query; filters are expressed as scopes.
type Scope = func(*gorm.DB) *gorm.DB

// primaryAuthorSortName orders by the sort name of the order 1 author.
// Books without a primary author sort first.
const primaryAuthorSortName = `COALESCE((
	SELECT persons.sort_name FROM credits
	JOIN persons ON persons.id = credits.person_id
	WHERE credits.book_id = books.id AND credits.role = 'author' AND credits.sort_order = 1
	LIMIT 1
), '')`

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func preloadBook(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Credits", func(db *gorm.DB) *gorm.DB {
			return db.Order("credits.role ASC, credits.sort_order ASC")
		}).
		Preload("Credits.Person").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.value ASC")
		}).
		Preload("Memberships").
		Preload("Memberships.Series")
}

// CatalogOrder sorts by primary author sort name, then publication date,
// with the id as a tie breaker so pages are stable.
func CatalogOrder(db *gorm.DB) *gorm.DB {
	return db.
		Order(primaryAuthorSortName + " ASC").
		Order("books.publication_date ASC").
		Order("books.id ASC")
}

// GetBookByID retrieves a book by its ID with credits, tags and series.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Scopes(preloadBook).First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookByUUID resolves a permalink.
func (r *Repository) GetBookByUUID(uuid string) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Where("uuid = ?", uuid).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindBookByISBN returns the first book carrying isbn, or nil when none does.
func (r *Repository) FindBookByISBN(isbn string) (*entities.Book, error) {
	if isbn == "" {
		return nil, nil
	}
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).Order("id ASC").First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBooksByIDs returns the books with the given ids, in id order.
func (r *Repository) GetBooksByIDs(ids []uint) ([]entities.Book, error) {
	var books []entities.Book
	if len(ids) == 0 {
		return books, nil
	}
	err := r.db.Scopes(preloadBook).Where("id IN ?", ids).Order("id ASC").Find(&books).Error
	return books, err
}

// CountBooks counts the books matching every scope.
func (r *Repository) CountBooks(scopes []Scope) (int64, error) {
	var total int64
	err := r.db.Model(&entities.Book{}).Scopes(scopes...).Count(&total).Error
	return total, err
}

// ListBooks returns one window of the books matching every scope in catalog order.
func (r *Repository) ListBooks(scopes []Scope, offset, limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Model(&entities.Book{}).
		Scopes(scopes...).
		Scopes(CatalogOrder, preloadBook).
		Offset(offset).
		Limit(limit).
		Find(&books).Error
	return books, err
}

// CreateBook inserts a book together with any credits, tags and memberships
// already set on it. Persons and tags must exist beforehand.
func (r *Repository) CreateBook(book *entities.Book) error {
	if err := r.db.Omit("Credits.Person", "Credits.Book", "Memberships.Series", "Memberships.Book").Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book %q: %w", book.Title, err)
	}
	return nil
}

// UpdateBook saves the book's own columns, leaving associations untouched.
func (r *Repository) UpdateBook(book *entities.Book) error {
	return r.db.Omit(clause.Associations).Save(book).Error
}

// UpdateBookFields updates selected columns of one book.
func (r *Repository) UpdateBookFields(id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddCredit credits personID on bookID with role at position order.
func (r *Repository) AddCredit(bookID, personID uint, role entities.Role, order int) (*entities.Credit, error) {
	credit := &entities.Credit{
		BookID:   bookID,
		PersonID: personID,
		Role:     role,
		Order:    order,
	}
	if err := r.db.Omit("Book", "Person").Create(credit).Error; err != nil {
		return nil, err
	}
	return credit, nil
}

// NextCreditOrder returns the next free position for role on bookID.
func (r *Repository) NextCreditOrder(bookID uint, role entities.Role) (int, error) {
	var highest sql.NullInt64
	row := r.db.Model(&entities.Credit{}).
		Where("book_id = ? AND role = ?", bookID, role).
		Select("MAX(sort_order)").
		Row()
	if err := row.Scan(&highest); err != nil {
		return 0, err
	}
	if !highest.Valid {
		return 1, nil
	}
	return int(highest.Int64) + 1, nil
}

// DeleteBook removes a book with its credits, memberships and tag links.
func (r *Repository) DeleteBook(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.Credit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.SeriesMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM book_tags WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
