// Package credits provides database operations for the person/book credits.
//
// # Usage
//
//	repo := credits.NewRepository(db)
//	credit, err := repo.GetCreditByID(7)
package credits

import (
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/entities"
)

// Repository handles all credit database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new credits repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetCreditByID retrieves a credit with its person and book.
func (r *Repository) GetCreditByID(id uint) (*entities.Credit, error) {
	var credit entities.Credit
	if err := r.db.Preload("Person").Preload("Book").First(&credit, id).Error; err != nil {
		return nil, err
	}
	return &credit, nil
}

// UpdateCredit changes the role and position of a credit.
func (r *Repository) UpdateCredit(id uint, role entities.Role, order int) error {
	result := r.db.Model(&entities.Credit{}).Where("id = ?", id).Updates(map[string]any{
		"role":       role,
		"sort_order": order,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCredit removes one credit.
func (r *Repository) DeleteCredit(id uint) error {
	return r.db.Delete(&entities.Credit{}, id).Error
}
