package series

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
	dbPath := "./test_series_" + t.Name() + ".db"

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

func TestRepository_GetOrCreateSeries(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.GetOrCreateSeries("Dune Chronicles")
	require.NoError(t, err)
	again, err := repo.GetOrCreateSeries("Dune Chronicles")
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
}

func TestRepository_AddBookToSeries(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	s, err := repo.GetOrCreateSeries("Dune Chronicles")
	require.NoError(t, err)
	messiah := entities.Book{Title: "Dune Messiah"}
	dune := entities.Book{Title: "Dune"}
	require.NoError(t, db.Create(&messiah).Error)
	require.NoError(t, db.Create(&dune).Error)

	require.NoError(t, repo.AddBookToSeries(s.ID, messiah.ID, 3))
	require.NoError(t, repo.AddBookToSeries(s.ID, dune.ID, 1))
	require.NoError(t, repo.AddBookToSeries(s.ID, messiah.ID, 2))

	loaded, err := repo.GetSeriesByID(s.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Memberships, 2)
	assert.Equal(t, "Dune", loaded.Memberships[0].Book.Title)
	assert.Equal(t, "Dune Messiah", loaded.Memberships[1].Book.Title)
	assert.Equal(t, 2, loaded.Memberships[1].Order)
}
