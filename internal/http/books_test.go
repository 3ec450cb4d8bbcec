package http

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/covers"
	"github.com/mrlokans/catalog/internal/entities"
)

func TestBooksController_Show(t *testing.T) {
	t.Run("returns 400 for invalid book ID", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		w := app.get("/books/invalid")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid id")
	})

	t.Run("returns 404 for nonexistent book", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		w := app.get("/books/99999")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Book not found")
	})

	t.Run("renders credits and tags", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		book := app.addBook(t, "Solaris", "1961", entities.RoleAuthor, "Stanisław Lem", "Lem, Stanisław")
		app.credit(t, book, entities.RoleTranslator, "Bill Johnston")
		for _, value := range []string{"novel", "ddc:891.8537"} {
			tag, err := app.tags.GetOrCreateTag(value)
			require.NoError(t, err)
			require.NoError(t, app.tags.AddTagToBook(book.ID, tag.ID))
		}

		w := app.get(fmt.Sprintf("/books/%d", book.ID))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Solaris")
		assert.Contains(t, body, "Author:")
		assert.Contains(t, body, "Translator:")
		assert.Contains(t, body, "Bill Johnston")
		assert.Contains(t, body, `href="/?tag=novel"`)
		assert.Contains(t, body, `<abbr title="Dewey Decimal Classification">DDC</abbr>`)
		assert.Contains(t, body, "891.8537")

		novel, err := app.tags.GetOrCreateTag("novel")
		require.NoError(t, err)
		assert.Contains(t, body, fmt.Sprintf(`action="/books/%d/tags/%d/delete"`, book.ID, novel.ID))
		assert.Contains(t, body, `<option value="novel">`)
	})
}

func TestBooksController_RemoveTag(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	emma := app.addBook(t, "Emma", "1815", entities.RoleAuthor, "Jane Austen", "Austen, Jane")
	persuasion := app.addBook(t, "Persuasion", "1817", entities.RoleAuthor, "Jane Austen", "Austen, Jane")
	shared, err := app.tags.GetOrCreateTag("novel")
	require.NoError(t, err)
	single, err := app.tags.GetOrCreateTag("regency")
	require.NoError(t, err)
	require.NoError(t, app.tags.AddTagToBooks([]uint{emma.ID, persuasion.ID}, shared.ID))
	require.NoError(t, app.tags.AddTagToBook(emma.ID, single.ID))

	w := app.post(fmt.Sprintf("/books/%d/tags/%d/delete", emma.ID, shared.ID), url.Values{})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/books/%d", emma.ID), w.Header().Get("Location"))

	w = app.post(fmt.Sprintf("/books/%d/tags/%d/delete", emma.ID, single.ID), url.Values{})
	require.Equal(t, http.StatusFound, w.Code)

	saved, err := app.books.GetBookByID(emma.ID)
	require.NoError(t, err)
	assert.Empty(t, saved.Tags)

	// still on Persuasion, so only the unshared tag is gone
	_, err = app.tags.GetTagByID(shared.ID)
	assert.NoError(t, err)
	_, err = app.tags.GetTagByID(single.ID)
	assert.Error(t, err)

	w = app.post(fmt.Sprintf("/books/%d/tags/%d/delete", emma.ID, single.ID), url.Values{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.post(fmt.Sprintf("/books/%d/tags/x/delete", emma.ID), url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_Delete(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	emma := app.addBook(t, "Emma", "1815", entities.RoleAuthor, "Jane Austen", "Austen, Jane")
	app.credit(t, emma, entities.RoleIllustrator, "Hugh Thomson")
	tag, err := app.tags.GetOrCreateTag("novel")
	require.NoError(t, err)
	require.NoError(t, app.tags.AddTagToBook(emma.ID, tag.ID))
	app.addBook(t, "Persuasion", "1817", entities.RoleAuthor, "Jane Austen", "Austen, Jane")

	w := app.post(fmt.Sprintf("/books/%d/delete", emma.ID), url.Values{})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	_, err = app.books.GetBookByID(emma.ID)
	assert.Error(t, err)

	var credits int64
	require.NoError(t, app.db.DB.Model(&entities.Credit{}).Where("book_id = ?", emma.ID).Count(&credits).Error)
	assert.Zero(t, credits)

	w = app.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Persuasion")
	assert.NotContains(t, w.Body.String(), "Emma")

	w = app.post(fmt.Sprintf("/books/%d/delete", emma.ID), url.Values{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooksController_AddTag(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	book := app.addBook(t, "Emma", "1815", entities.RoleAuthor, "Jane Austen", "Austen, Jane")

	w := app.post(fmt.Sprintf("/books/%d/tags", book.ID), url.Values{"tag": {" novel "}})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/books/%d", book.ID), w.Header().Get("Location"))

	saved, err := app.books.GetBookByID(book.ID)
	require.NoError(t, err)
	require.Len(t, saved.Tags, 1)
	assert.Equal(t, "novel", saved.Tags[0].Value)

	w = app.post(fmt.Sprintf("/books/%d/tags", book.ID), url.Values{"tag": {""}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_Fields(t *testing.T) {
	t.Run("shows a linked field", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		book := app.addBook(t, "Emma", "1815", entities.RoleAuthor, "", "")

		w := app.get(fmt.Sprintf("/books/%d/fields/publication_date", book.ID))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Publication date")
		assert.Contains(t, w.Body.String(), `href="/?year=1815"`)
	})

	t.Run("unknown field is 404", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		book := app.addBook(t, "Emma", "1815", entities.RoleAuthor, "", "")

		w := app.get(fmt.Sprintf("/books/%d/fields/uuid", book.ID))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("edit answers 303 to the field view", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		book := app.addBook(t, "Emma", "1815", entities.RoleAuthor, "", "")

		w := app.get(fmt.Sprintf("/books/%d/fields/publisher/edit", book.ID))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="publisher"`)

		w = app.post(fmt.Sprintf("/books/%d/fields/publisher/edit", book.ID), url.Values{"publisher": {"John Murray"}})

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, fmt.Sprintf("/books/%d/fields/publisher", book.ID), w.Header().Get("Location"))

		saved, err := app.books.GetBookByID(book.ID)
		require.NoError(t, err)
		assert.Equal(t, "John Murray", saved.Publisher)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		book := app.addBook(t, "Emma", "1815", entities.RoleAuthor, "", "")

		cases := map[string]url.Values{
			"title":  {"title": {"  "}},
			"format": {"format": {"scroll"}},
			"isbn":   {"isbn": {"9780143127551"}},
		}
		for field, form := range cases {
			w := app.post(fmt.Sprintf("/books/%d/fields/%s/edit", book.ID, field), form)
			assert.Equal(t, http.StatusBadRequest, w.Code, field)
		}

		saved, err := app.books.GetBookByID(book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Emma", saved.Title)
	})

	t.Run("normalizes an edited isbn", func(t *testing.T) {
		app, cleanup := setupTestApp(t)
		defer cleanup()

		book := app.addBook(t, "Dune", "1965", entities.RoleAuthor, "", "")

		w := app.post(fmt.Sprintf("/books/%d/fields/isbn/edit", book.ID), url.Values{"isbn": {"978-0-14-312755-0"}})
		require.Equal(t, http.StatusSeeOther, w.Code)

		saved, err := app.books.GetBookByID(book.ID)
		require.NoError(t, err)
		assert.Equal(t, "9780143127550", saved.ISBN)
	})

	t.Run("editing the isbn drops cached covers", func(t *testing.T) {
		dir := t.TempDir()
		cache, err := covers.NewCache(dir, serverResolver{base: "http://127.0.0.1:1"})
		require.NoError(t, err)

		app, cleanup := setupTestApp(t, func(cfg *RouterConfig) {
			cfg.CoverCache = cache
		})
		defer cleanup()

		book := &entities.Book{Title: "Dune", ISBN: duneISBN}
		require.NoError(t, app.books.CreateBook(book))
		stale := filepath.Join(dir, "cover_"+duneISBN+"_0011223344556677.jpg")
		require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

		w := app.post(fmt.Sprintf("/books/%d/fields/publisher/edit", book.ID), url.Values{"publisher": {"Chilton"}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.FileExists(t, stale)

		w = app.post(fmt.Sprintf("/books/%d/fields/isbn/edit", book.ID), url.Values{"isbn": {"9780441172719"}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.NoFileExists(t, stale)
	})
}

func TestBooksController_Metadata(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	book := app.addBook(t, "emma", "?", entities.RoleAuthor, "Jane Austen", "Austen, Jane")

	w := app.get(fmt.Sprintf("/books/%d/metadata", book.ID))
	require.Equal(t, http.StatusOK, w.Code)

	w = app.post(fmt.Sprintf("/books/%d/metadata", book.ID), url.Values{
		"title":            {"Emma"},
		"publisher":        {"John Murray"},
		"publication_date": {"1815"},
		"format":           {"hardcover"},
	})
	require.Equal(t, http.StatusFound, w.Code)

	saved, err := app.books.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emma", saved.Title)
	assert.Equal(t, "1815", saved.PublicationDate)
	assert.Equal(t, entities.FormatHardcover, saved.Format)
	require.Len(t, saved.Credits, 1, "metadata edit must keep credits")

	w = app.post(fmt.Sprintf("/books/%d/metadata", book.ID), url.Values{"title": {"Emma"}, "format": {"scroll"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_Find(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	book := app.addBook(t, "Emma", "1815", entities.RoleAuthor, "", "")
	require.NotEmpty(t, book.UUID)

	w := app.get("/find?uuid=" + book.UUID)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/books/%d", book.ID), w.Header().Get("Location"))

	w = app.get("/find?uuid=00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.get("/find")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreditsController(t *testing.T) {
	app, cleanup := setupTestApp(t)
	defer cleanup()

	book := app.addBook(t, "Emma", "1815", entities.RoleAuthor, "Jane Austen", "Austen, Jane")
	saved, err := app.books.GetBookByID(book.ID)
	require.NoError(t, err)
	require.Len(t, saved.Credits, 1)
	creditID := saved.Credits[0].ID

	w := app.get(fmt.Sprintf("/credits/%d", creditID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Austen")

	w = app.get(fmt.Sprintf("/credits/%d/edit", creditID))
	require.Equal(t, http.StatusOK, w.Code)

	w = app.post(fmt.Sprintf("/credits/%d/edit", creditID), url.Values{"role": {"editor"}, "order": {"2"}})
	require.Equal(t, http.StatusFound, w.Code)

	credit, err := app.credits.GetCreditByID(creditID)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleEditor, credit.Role)
	assert.Equal(t, 2, credit.Order)

	w = app.post(fmt.Sprintf("/credits/%d/edit", creditID), url.Values{"role": {"narrator"}, "order": {"1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.get("/credits/4242")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.post(fmt.Sprintf("/credits/%d/delete", creditID), url.Values{})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/books/%d", book.ID), w.Header().Get("Location"))

	_, err = app.credits.GetCreditByID(creditID)
	assert.Error(t, err)
	_, err = app.books.GetBookByID(book.ID)
	assert.NoError(t, err)
}
