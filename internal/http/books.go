package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/isbn"
	"github.com/mrlokans/catalog/internal/session"
)

// BookField is a single book column that can be shown and edited on its own.
type BookField struct {
	Name   string
	Label  string
	Filter string // listing parameter the value links to, if any
	value  func(*entities.Book) string
}

var bookFields = []BookField{
	{Name: "title", Label: "Title", value: func(b *entities.Book) string { return b.Title }},
	{Name: "subtitle", Label: "Subtitle", value: func(b *entities.Book) string { return b.Subtitle }},
	{Name: "isbn", Label: "ISBN", value: func(b *entities.Book) string { return b.ISBN }},
	{Name: "publisher", Label: "Publisher", Filter: "publisher", value: func(b *entities.Book) string { return b.Publisher }},
	{Name: "publication_date", Label: "Publication date", Filter: "year", value: func(b *entities.Book) string { return b.PublicationDate }},
	{Name: "format", Label: "Format", Filter: "format", value: func(b *entities.Book) string { return string(b.Format) }},
}

func lookupBookField(name string) (BookField, bool) {
	for _, field := range bookFields {
		if field.Name == name {
			return field, true
		}
	}
	return BookField{}, false
}

// cleanFieldValue trims and checks a submitted value for field.
func cleanFieldValue(field BookField, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	switch field.Name {
	case "title":
		if value == "" {
			return "", errors.New("title is required")
		}
	case "format":
		if value == "" {
			return string(entities.FormatUnknown), nil
		}
		if !knownFormat(entities.Format(value)) {
			return "", fmt.Errorf("unknown format %q", value)
		}
	case "isbn":
		if value == "" {
			return "", nil
		}
		return isbn.Validate(value)
	}
	return value, nil
}

func knownFormat(f entities.Format) bool {
	if f == entities.FormatUnknown {
		return true
	}
	for _, known := range entities.Formats {
		if f == known {
			return true
		}
	}
	return false
}

// CreditGroup lists the credits of one role on the book page.
type CreditGroup struct {
	Role    entities.Role
	Credits []entities.Credit
}

func creditGroups(book *entities.Book) []CreditGroup {
	var groups []CreditGroup
	for _, role := range entities.Roles {
		if credits := book.CreditsByRole(role); len(credits) > 0 {
			groups = append(groups, CreditGroup{Role: role, Credits: credits})
		}
	}
	return groups
}

// BooksController serves the book detail page and its edit forms.
type BooksController struct {
	pages
	books  BookStore
	tags   TagStore
	covers CoverInvalidator
}

func NewBooksController(books BookStore, tags TagStore, sessions *session.Manager) *BooksController {
	return &BooksController{
		pages: pages{sessions: sessions},
		books: books,
		tags:  tags,
	}
}

// SetCoverInvalidator drops a book's cached covers when its ISBN is edited.
func (bc *BooksController) SetCoverInvalidator(covers CoverInvalidator) {
	bc.covers = covers
}

func (bc *BooksController) loadBook(c *gin.Context) (*entities.Book, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	book, err := bc.books.GetBookByID(id)
	if err != nil {
		respondLookupError(c, err, "Book")
		return nil, false
	}
	return book, true
}

// Show renders the book detail page.
// GET /books/:id
func (bc *BooksController) Show(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}

	known, err := bc.tags.ListTags()
	if err != nil {
		respondInternalError(c, err, "list tags")
		return
	}

	bc.render(c, http.StatusOK, "book", gin.H{
		"Book":           book,
		"CreditGroups":   creditGroups(book),
		"Tags":           book.PlainTags(),
		"ClassifierTags": book.ClassifierTags(),
		"KnownTags":      known,
		"Fields":         bookFields,
	})
}

// Delete removes the book with its credits, series memberships and tag links.
// POST /books/:id/delete
func (bc *BooksController) Delete(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}

	if err := bc.books.DeleteBook(book.ID); err != nil {
		respondLookupError(c, err, "Book")
		return
	}
	bc.dropCovers(book.ISBN)

	bc.flash(c, session.FlashSuccess, fmt.Sprintf("Deleted %q", book.Title))
	c.Redirect(http.StatusFound, "/")
}

type tagForm struct {
	Tag string `form:"tag" binding:"required"`
}

// AddTag attaches a tag, created on first use, to the book.
// POST /books/:id/tags
func (bc *BooksController) AddTag(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}

	var form tagForm
	if err := c.ShouldBind(&form); err != nil || strings.TrimSpace(form.Tag) == "" {
		respondBadRequest(c, "Tag is required")
		return
	}

	tag, err := bc.tags.GetOrCreateTag(strings.TrimSpace(form.Tag))
	if err != nil {
		respondInternalError(c, err, "get or create tag")
		return
	}
	if err := bc.tags.AddTagToBook(book.ID, tag.ID); err != nil {
		respondInternalError(c, err, "add tag to book")
		return
	}

	c.Redirect(http.StatusFound, bookURL(book.ID))
}

// RemoveTag detaches a tag from the book. A tag left on no book is deleted.
// POST /books/:id/tags/:tag_id/delete
func (bc *BooksController) RemoveTag(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tag_id")
	if !ok {
		return
	}
	tag, err := bc.tags.GetTagByID(tagID)
	if err != nil {
		respondLookupError(c, err, "Tag")
		return
	}

	if err := bc.tags.RemoveTagFromBook(book.ID, tag.ID); err != nil {
		respondInternalError(c, err, "remove tag from book")
		return
	}

	c.Redirect(http.StatusFound, bookURL(book.ID))
}

func (bc *BooksController) loadField(c *gin.Context) (*entities.Book, BookField, bool) {
	book, ok := bc.loadBook(c)
	if !ok {
		return nil, BookField{}, false
	}
	field, ok := lookupBookField(c.Param("field"))
	if !ok {
		respondNotFound(c, "Field")
		return nil, BookField{}, false
	}
	return book, field, true
}

// ShowField renders one field of a book.
// GET /books/:id/fields/:field
func (bc *BooksController) ShowField(c *gin.Context) {
	book, field, ok := bc.loadField(c)
	if !ok {
		return
	}

	value := field.value(book)
	display := value
	if field.Name == "format" {
		display = entities.Format(value).Label()
	}

	var filterURL string
	if field.Filter != "" && value != "" {
		filterURL = "/?" + url.Values{field.Filter: {value}}.Encode()
	}

	bc.render(c, http.StatusOK, "show_field", gin.H{
		"Book":      book,
		"Field":     field,
		"Value":     display,
		"FilterURL": filterURL,
	})
}

func (bc *BooksController) renderFieldForm(c *gin.Context, status int, book *entities.Book, field BookField, value, message string) {
	bc.render(c, status, "edit_field", gin.H{
		"Book":    book,
		"Field":   field,
		"Value":   value,
		"Formats": entities.Formats,
		"Error":   message,
	})
}

// EditField renders the form for one field.
// GET /books/:id/fields/:field/edit
func (bc *BooksController) EditField(c *gin.Context) {
	book, field, ok := bc.loadField(c)
	if !ok {
		return
	}
	bc.renderFieldForm(c, http.StatusOK, book, field, field.value(book), "")
}

// UpdateField saves one field and answers 303 See Other to the field view.
// POST /books/:id/fields/:field/edit
func (bc *BooksController) UpdateField(c *gin.Context) {
	book, field, ok := bc.loadField(c)
	if !ok {
		return
	}

	raw, present := c.GetPostForm(field.Name)
	if !present {
		respondBadRequest(c, field.Label+" is missing from the form")
		return
	}
	value, err := cleanFieldValue(field, raw)
	if err != nil {
		bc.renderFieldForm(c, http.StatusBadRequest, book, field, raw, err.Error())
		return
	}

	if err := bc.books.UpdateBookFields(book.ID, map[string]any{field.Name: value}); err != nil {
		respondLookupError(c, err, "Book")
		return
	}
	if field.Name == "isbn" && value != book.ISBN {
		bc.dropCovers(book.ISBN)
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/books/%d/fields/%s", book.ID, field.Name))
}

type metadataForm struct {
	Title           string `form:"title" binding:"required"`
	Publisher       string `form:"publisher"`
	PublicationDate string `form:"publication_date"`
	Format          string `form:"format" binding:"omitempty,oneof=hardcover paperback mass_market ebook map chapbook ?"`
}

// EditMetadata renders the metadata form of a book.
// GET /books/:id/metadata
func (bc *BooksController) EditMetadata(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}
	bc.render(c, http.StatusOK, "edit_book", gin.H{
		"Book":    book,
		"Formats": entities.Formats,
	})
}

// UpdateMetadata saves title, publisher, publication date and format.
// POST /books/:id/metadata
func (bc *BooksController) UpdateMetadata(c *gin.Context) {
	book, ok := bc.loadBook(c)
	if !ok {
		return
	}

	var form metadataForm
	if err := c.ShouldBind(&form); err != nil || strings.TrimSpace(form.Title) == "" {
		bc.render(c, http.StatusBadRequest, "edit_book", gin.H{
			"Book":    book,
			"Formats": entities.Formats,
			"Error":   "A title is required and the format must be one of the listed formats",
		})
		return
	}

	book.Title = strings.TrimSpace(form.Title)
	book.Publisher = strings.TrimSpace(form.Publisher)
	book.PublicationDate = strings.TrimSpace(form.PublicationDate)
	book.Format = entities.Format(form.Format)
	if book.Format == "" {
		book.Format = entities.FormatUnknown
	}

	if err := bc.books.UpdateBook(book); err != nil {
		respondInternalError(c, err, "update book")
		return
	}

	bc.flash(c, session.FlashSuccess, "Book updated")
	c.Redirect(http.StatusFound, bookURL(book.ID))
}

// Find resolves a permalink UUID to its book.
// GET /find?uuid=...
func (bc *BooksController) Find(c *gin.Context) {
	uuid := strings.TrimSpace(c.Query("uuid"))
	if uuid == "" {
		respondBadRequest(c, "uuid is required")
		return
	}

	book, err := bc.books.GetBookByUUID(uuid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.String(http.StatusNotFound, "Could not find anything with the UUID %s", uuid)
		return
	}
	if err != nil {
		respondInternalError(c, err, "find by uuid")
		return
	}

	c.Redirect(http.StatusFound, bookURL(book.ID))
}

// dropCovers forgets the cached covers of isbn and logs failures.
func (bc *BooksController) dropCovers(isbn string) {
	if bc.covers == nil || isbn == "" {
		return
	}
	if err := bc.covers.InvalidateCover(isbn); err != nil {
		zap.S().Warnf("Failed to invalidate cover for %s: %v", isbn, err)
	}
}

func bookURL(id uint) string {
	return fmt.Sprintf("/books/%d", id)
}
