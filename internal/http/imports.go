package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/importers"
	"github.com/mrlokans/catalog/internal/session"
	"github.com/mrlokans/catalog/internal/utils"
)

// ImportsController adds books by title or by ISBN.
type ImportsController struct {
	pages
	persons PersonStore
	titles  *importers.TitleImporter
	isbns   *importers.ISBNImporter
}

func NewImportsController(persons PersonStore, titles *importers.TitleImporter, isbns *importers.ISBNImporter, sessions *session.Manager) *ImportsController {
	return &ImportsController{
		pages:   pages{sessions: sessions},
		persons: persons,
		titles:  titles,
		isbns:   isbns,
	}
}

func (ic *ImportsController) renderManualForm(c *gin.Context, status int, form manualImportForm, message string) {
	persons, err := ic.persons.ListPersons()
	if err != nil {
		respondInternalError(c, err, "list persons")
		return
	}
	ic.render(c, status, "import_books", gin.H{
		"Persons": persons,
		"Form":    form,
		"Error":   message,
	})
}

type manualImportForm struct {
	Author uint   `form:"author" binding:"required"`
	Titles string `form:"titles" binding:"required"`
}

// ManualForm renders the title import form.
// GET /import
func (ic *ImportsController) ManualForm(c *gin.Context) {
	ic.renderManualForm(c, http.StatusOK, manualImportForm{}, "")
}

// ManualImport creates one book per submitted title line for the chosen author.
// POST /import
func (ic *ImportsController) ManualImport(c *gin.Context) {
	var form manualImportForm
	if err := c.ShouldBind(&form); err != nil || len(utils.GetLines(form.Titles)) == 0 {
		ic.renderManualForm(c, http.StatusBadRequest, form, "Pick an author and enter at least one title")
		return
	}

	books, err := ic.titles.Import(form.Author, form.Titles)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ic.renderManualForm(c, http.StatusBadRequest, form, "Unknown author")
		return
	}
	if err != nil {
		respondInternalError(c, err, "title import")
		return
	}

	ic.flash(c, session.FlashSuccess, fmt.Sprintf("Imported %d book(s)", len(books)))
	c.Redirect(http.StatusFound, "/")
}

// ISBNForm renders the ISBN import form.
// GET /isbn_import
func (ic *ImportsController) ISBNForm(c *gin.Context) {
	ic.render(c, http.StatusOK, "import_by_isbn", nil)
}

// submittedISBNs reads a single "isbn" field or an "isbns" list, one per line.
func submittedISBNs(c *gin.Context) []string {
	if single, ok := c.GetPostForm("isbn"); ok {
		return utils.GetLines(single)
	}
	return utils.GetLines(c.PostForm("isbns"))
}

// ISBNImport imports every submitted ISBN. A single successful ISBN goes
// straight to its book, anything else shows the per-ISBN results.
// POST /isbn_import
func (ic *ImportsController) ISBNImport(c *gin.Context) {
	codes := submittedISBNs(c)
	if len(codes) == 0 {
		ic.render(c, http.StatusBadRequest, "import_by_isbn", gin.H{
			"Error": "Enter at least one ISBN",
		})
		return
	}

	results := ic.isbns.Import(c.Request.Context(), codes)

	if len(results) == 1 && results[0].Success() {
		c.Redirect(http.StatusFound, bookURL(results[0].BookID))
		return
	}

	var succeeded int
	for _, result := range results {
		if result.Success() {
			succeeded++
		}
	}

	ic.render(c, http.StatusOK, "import_results", gin.H{
		"Results":   results,
		"Succeeded": succeeded,
		"Failed":    len(results) - succeeded,
		"Input":     strings.Join(codes, "\n"),
	})
}
