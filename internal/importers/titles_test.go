package importers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/entities"
)

func TestParseTitleLines(t *testing.T) {
	lines := ParseTitleLines("Emma\n\n  Persuasion 9780141439686  \nCatch-22 0684833395\n1984\r\n")

	assert.Equal(t, []TitleLine{
		{Title: "Emma"},
		{Title: "Persuasion", ISBN: "9780141439686"},
		{Title: "Catch-22", ISBN: "0684833395"},
		{Title: "1984"},
	}, lines)
}

func TestTitleImporter_Import(t *testing.T) {
	catalog, cleanup := setupTestDB(t)
	defer cleanup()

	author, _, err := catalog.persons.GetOrCreatePerson("Jane Austen", "Austen, Jane")
	require.NoError(t, err)

	importer := NewTitleImporter(catalog.books, catalog.persons)
	created, err := importer.Import(author.ID, "Emma\nPersuasion 9780141439686\n")
	require.NoError(t, err)
	require.Len(t, created, 2)

	persuasion, err := catalog.books.GetBookByID(created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Persuasion", persuasion.Title)
	assert.Equal(t, "9780141439686", persuasion.ISBN)

	primary := persuasion.PrimaryAuthor()
	require.NotNil(t, primary)
	assert.Equal(t, author.ID, primary.ID)
	assert.Equal(t, entities.RoleAuthor, persuasion.Credits[0].Role)
}

func TestTitleImporter_UnknownAuthor(t *testing.T) {
	catalog, cleanup := setupTestDB(t)
	defer cleanup()

	importer := NewTitleImporter(catalog.books, catalog.persons)
	_, err := importer.Import(42, "Emma")
	assert.Error(t, err)

	total, err := catalog.books.CountBooks(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
