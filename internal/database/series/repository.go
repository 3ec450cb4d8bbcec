// Package series provides database operations for book series.
//
// # Usage
//
//	repo := series.NewRepository(db)
//	s, err := repo.GetOrCreateSeries("Dune Chronicles")
//	err = repo.AddBookToSeries(s.ID, book.ID, 1)
package series

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/entities"
)

// Repository handles all series database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new series repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateSeries looks a series up by exact title.
func (r *Repository) GetOrCreateSeries(title string) (*entities.Series, error) {
	var s entities.Series
	err := r.db.Where("title = ?", title).Order("id ASC").First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	s = entities.Series{Title: title}
	if err := r.db.Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSeriesByID retrieves a series with its books in series order.
func (r *Repository) GetSeriesByID(id uint) (*entities.Series, error) {
	var s entities.Series
	err := r.db.Preload("Memberships", func(db *gorm.DB) *gorm.DB {
		return db.Order("series_memberships.sort_order ASC")
	}).Preload("Memberships.Book").First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AddBookToSeries places bookID in seriesID at position order. A book that is
// already a member only has its position updated.
func (r *Repository) AddBookToSeries(seriesID, bookID uint, order int) error {
	var membership entities.SeriesMembership
	err := r.db.Where("series_id = ? AND book_id = ?", seriesID, bookID).First(&membership).Error
	if err == nil {
		return r.db.Model(&membership).Update("sort_order", order).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	membership = entities.SeriesMembership{SeriesID: seriesID, BookID: bookID, Order: order}
	return r.db.Omit("Series", "Book").Create(&membership).Error
}
