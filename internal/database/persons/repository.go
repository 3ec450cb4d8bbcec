// Package persons provides database operations for people credited on books.
//
// # Usage
//
//	repo := persons.NewRepository(db)
//	person, created, err := repo.GetOrCreatePerson("Frank Herbert", "Herbert, Frank")
package persons

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/entities"
)

// Repository handles all person database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new persons repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreatePerson looks a person up by exact name. sortName is only
// applied when the person is created.
func (r *Repository) GetOrCreatePerson(name, sortName string) (*entities.Person, bool, error) {
	var person entities.Person
	err := r.db.Where("name = ?", name).Order("id ASC").First(&person).Error
	if err == nil {
		return &person, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	person = entities.Person{Name: name, SortName: sortName}
	if err := r.db.Create(&person).Error; err != nil {
		return nil, false, err
	}
	return &person, true, nil
}

// GetPersonByID retrieves a person by ID.
func (r *Repository) GetPersonByID(id uint) (*entities.Person, error) {
	var person entities.Person
	if err := r.db.First(&person, id).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// ListPersons returns everyone in sort name order.
func (r *Repository) ListPersons() ([]entities.Person, error) {
	var people []entities.Person
	err := r.db.Order("sort_name ASC, name ASC").Find(&people).Error
	return people, err
}
