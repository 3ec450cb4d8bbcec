package credits

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_credits_" + t.Name() + ".db"

	db, err := gorm.Open(database.SQLiteDialector(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db), db, cleanup
}

func seedCredit(t *testing.T, db *gorm.DB) *entities.Credit {
	t.Helper()
	person := entities.Person{Name: "Richard Pevear", SortName: "Pevear, Richard"}
	require.NoError(t, db.Create(&person).Error)
	book := entities.Book{Title: "War and Peace"}
	require.NoError(t, db.Create(&book).Error)
	credit := &entities.Credit{BookID: book.ID, PersonID: person.ID, Role: entities.RoleAuthor, Order: 1}
	require.NoError(t, db.Omit("Book", "Person").Create(credit).Error)
	return credit
}

func TestRepository_GetCreditByID(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	credit := seedCredit(t, db)

	loaded, err := repo.GetCreditByID(credit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Richard Pevear", loaded.Person.Name)
	assert.Equal(t, "War and Peace", loaded.Book.Title)

	_, err = repo.GetCreditByID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_UpdateCredit(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	credit := seedCredit(t, db)

	require.NoError(t, repo.UpdateCredit(credit.ID, entities.RoleTranslator, 2))

	loaded, err := repo.GetCreditByID(credit.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleTranslator, loaded.Role)
	assert.Equal(t, 2, loaded.Order)

	assert.ErrorIs(t, repo.UpdateCredit(999, entities.RoleEditor, 1), gorm.ErrRecordNotFound)
}

func TestRepository_DeleteCredit(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	credit := seedCredit(t, db)
	require.NoError(t, repo.DeleteCredit(credit.ID))

	_, err := repo.GetCreditByID(credit.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
