package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/security"
	"github.com/mrlokans/catalog/internal/services"
	"github.com/mrlokans/catalog/internal/session"
)

// RecordsController edits several books at once in a spreadsheet-like form.
type RecordsController struct {
	pages
	books  BookStore
	editor *services.BulkEditService
}

func NewRecordsController(books BookStore, editor *services.BulkEditService, sessions *session.Manager) *RecordsController {
	return &RecordsController{
		pages:  pages{sessions: sessions},
		books:  books,
		editor: editor,
	}
}

// Edit renders one row per selected book.
// GET /records?book_id=...&redirect=...
func (rc *RecordsController) Edit(c *gin.Context) {
	ids, err := parseIDs(c.QueryArray("book_id"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	books, err := rc.books.GetBooksByIDs(ids)
	if err != nil {
		respondInternalError(c, err, "load books for bulk edit")
		return
	}

	rc.render(c, http.StatusOK, "bulk_edit_books", gin.H{
		"Books":    books,
		"Redirect": security.SafeRedirect(c.Query("redirect"), "/"),
	})
}

// Apply saves every submitted row on its own and reports the rows that failed.
// POST /records
func (rc *RecordsController) Apply(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		respondBadRequest(c, "Invalid form")
		return
	}

	rows := services.BuildRows(c.Request.PostForm, services.BulkEditFields)
	result := rc.editor.Apply(rows)

	if result.Updated > 0 {
		rc.flash(c, session.FlashSuccess, fmt.Sprintf("Updated %d book(s)", result.Updated))
	}
	for _, failure := range result.Failed {
		rc.flash(c, session.FlashError, failure.Error())
	}

	c.Redirect(http.StatusFound, security.SafeRedirect(c.PostForm("redirect"), "/"))
}
