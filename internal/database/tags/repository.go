// Package tags provides database operations for tag management.
//
// This package implements the TagStore interface defined in internal/http/tags.go.
//
// # Interface Implementation
//
//	var _ http.TagStore = (*Repository)(nil)
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	tag, err := repo.GetOrCreateTag("classic")
//	err = repo.AddTagToBooks([]uint{3, 5}, tag.ID)
package tags

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTag creates a new tag.
func (r *Repository) CreateTag(value string) (*entities.Tag, error) {
	tag := &entities.Tag{Value: value}
	if err := r.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// GetOrCreateTag retrieves or creates a tag by its exact value.
func (r *Repository) GetOrCreateTag(value string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.Where("value = ?", value).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.CreateTag(value)
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListTags returns all tags in value order.
func (r *Repository) ListTags() ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.Order("value ASC").Find(&tags).Error
	return tags, err
}

// GetTagByID retrieves a tag by ID.
func (r *Repository) GetTagByID(id uint) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// AddTagToBook associates a tag with a book. Attaching twice is a no-op.
func (r *Repository) AddTagToBook(bookID, tagID uint) error {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		return err
	}
	var tag entities.Tag
	if err := r.db.First(&tag, tagID).Error; err != nil {
		return err
	}
	return r.db.Model(&book).Association("Tags").Append(&tag)
}

// AddTagToBooks attaches one tag to every listed book.
func (r *Repository) AddTagToBooks(bookIDs []uint, tagID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &Repository{db: tx}
		for _, bookID := range bookIDs {
			if err := txRepo.AddTagToBook(bookID, tagID); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveTagFromBook removes a tag from a book and drops the tag if nothing
// else uses it.
func (r *Repository) RemoveTagFromBook(bookID, tagID uint) error {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		return err
	}
	var tag entities.Tag
	if err := r.db.First(&tag, tagID).Error; err != nil {
		return err
	}
	if err := r.db.Model(&book).Association("Tags").Delete(&tag); err != nil {
		return err
	}
	return r.DeleteTagIfOrphan(tagID)
}

// IsTagOrphan checks if a tag has no associated books.
func (r *Repository) IsTagOrphan(tagID uint) (bool, error) {
	var bookCount int64
	if err := r.db.Table("book_tags").Where("tag_id = ?", tagID).Count(&bookCount).Error; err != nil {
		return false, err
	}
	return bookCount == 0, nil
}

// DeleteTagIfOrphan deletes a tag if it has no associations.
func (r *Repository) DeleteTagIfOrphan(tagID uint) error {
	orphan, err := r.IsTagOrphan(tagID)
	if err != nil {
		return err
	}
	if orphan {
		return r.db.Delete(&entities.Tag{}, tagID).Error
	}
	return nil
}

// DeleteOrphanTags removes all orphan tags.
func (r *Repository) DeleteOrphanTags() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT tag_id FROM book_tags)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
