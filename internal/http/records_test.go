package http

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/entities"
)

func TestRecordsController_Edit(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	emma := app.addBook(t, "Emma", "1815", entities.RoleAuthor, "", "")
	dune := app.addBook(t, "Dune", "1965", entities.RoleAuthor, "", "")
	app.addBook(t, "Solaris", "1961", entities.RoleAuthor, "", "")

	w := app.get(fmt.Sprintf("/records?book_id=%d&book_id=%d&redirect=%s", emma.ID, dune.ID, url.QueryEscape("/?page=2")))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Emma"`)
	assert.Contains(t, body, `value="Dune"`)
	assert.NotContains(t, body, "Solaris")
	assert.Contains(t, body, "Edit 2 book(s)")

	w = app.get("/records?book_id=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordsController_Apply(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	emma := app.addBook(t, "emma", "?", entities.RoleAuthor, "", "")
	dune := app.addBook(t, "dune", "?", entities.RoleAuthor, "", "")
	solaris := app.addBook(t, "solaris", "?", entities.RoleAuthor, "", "")

	form := url.Values{
		"book_id":          {fmt.Sprint(emma.ID), fmt.Sprint(dune.ID), fmt.Sprint(solaris.ID)},
		"title":            {"Emma", "", "Solaris"},
		"subtitle":         {"", "", ""},
		"publisher":        {"John Murray", "Chilton", "MON"},
		"publication_date": {"1815", "1965", "1961"},
		"redirect":         {"/?tag=classic"},
	}

	w := app.post("/records", form)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/?tag=classic", w.Header().Get("Location"))

	saved, err := app.books.GetBookByID(emma.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emma", saved.Title)
	assert.Equal(t, "John Murray", saved.Publisher)
	assert.Equal(t, "1815", saved.PublicationDate)

	// The row with an empty title fails on its own
	saved, err = app.books.GetBookByID(dune.ID)
	require.NoError(t, err)
	assert.Equal(t, "dune", saved.Title)
	assert.Equal(t, "?", saved.PublicationDate)

	saved, err = app.books.GetBookByID(solaris.ID)
	require.NoError(t, err)
	assert.Equal(t, "Solaris", saved.Title)
	assert.Equal(t, "MON", saved.Publisher)
}

func TestRecordsController_Apply_ShortestListWins(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	emma := app.addBook(t, "emma", "?", entities.RoleAuthor, "", "")
	dune := app.addBook(t, "dune", "?", entities.RoleAuthor, "", "")

	w := app.post("/records", url.Values{
		"book_id":          {fmt.Sprint(emma.ID), fmt.Sprint(dune.ID)},
		"title":            {"Emma"},
		"subtitle":         {"", ""},
		"publisher":        {"", ""},
		"publication_date": {"1815", "1965"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	saved, err := app.books.GetBookByID(dune.ID)
	require.NoError(t, err)
	assert.Equal(t, "dune", saved.Title)
}
