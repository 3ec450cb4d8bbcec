package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/filters"
	"github.com/mrlokans/catalog/internal/pagination"
	"github.com/mrlokans/catalog/internal/security"
	"github.com/mrlokans/catalog/internal/session"
)

// CatalogController serves the filtered book listing and its bulk actions.
type CatalogController struct {
	pages
	books    BookStore
	tags     TagStore
	registry filters.Registry
	pageSize int
}

func NewCatalogController(books BookStore, tags TagStore, registry filters.Registry, pageSize int, sessions *session.Manager) *CatalogController {
	if registry == nil {
		registry = filters.DefaultRegistry
	}
	if pageSize < 1 {
		pageSize = config.DefaultPageSize
	}
	return &CatalogController{
		pages:    pages{sessions: sessions},
		books:    books,
		tags:     tags,
		registry: registry,
		pageSize: pageSize,
	}
}

// CategoryLink is one entry of the listing's category menu.
type CategoryLink struct {
	Name string
	URL  string
}

// Index renders one page of the catalog narrowed by the query's filters.
// GET /
func (cc *CatalogController) Index(c *gin.Context) {
	u := c.Request.URL
	set := cc.registry.Build(u)

	total, err := cc.books.CountBooks(set.Scopes)
	if err != nil {
		respondInternalError(c, err, "count books")
		return
	}

	page := pagination.New(c.Query(filters.PageParam), total, cc.pageSize)
	books, err := cc.books.ListBooks(set.Scopes, page.Offset(), page.Size)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	categories := make([]CategoryLink, 0, len(filters.Categories))
	for _, name := range filters.Categories {
		categories = append(categories, CategoryLink{Name: name, URL: filters.AddFilter(u, "category", name)})
	}

	cc.render(c, http.StatusOK, "index", gin.H{
		"Books":            books,
		"Page":             page,
		"Links":            pagination.NewLinks(u, page, filters.PageParam),
		"Filters":          set.Applied,
		"Categories":       categories,
		"FieldOptions":     filters.FieldOptions,
		"OperationOptions": filters.OperationOptions,
		"CurrentURL":       u.RequestURI(),
	})
}

type addFilterForm struct {
	Name      string `form:"filter_name" binding:"required"`
	Operation string `form:"filter_operation"`
	Value     string `form:"filter_value" binding:"required"`
}

// Post handles the add-filter form and the bulk actions of the listing.
// POST /
func (cc *CatalogController) Post(c *gin.Context) {
	if _, ok := c.GetPostForm("filter_name"); ok {
		cc.addFilter(c)
		return
	}

	switch c.PostForm("action") {
	case "tag":
		cc.tagBooks(c)
	case "edit":
		cc.editBooks(c)
	default:
		respondBadRequest(c, "Unknown action")
	}
}

// addFilter redirects to the current listing with one more filter.
func (cc *CatalogController) addFilter(c *gin.Context) {
	var form addFilterForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "Filter field and value are required")
		return
	}

	name := form.Name + form.Operation
	if _, ok := cc.registry[name]; !ok {
		respondBadRequest(c, "Unknown filter "+name)
		return
	}

	c.Redirect(http.StatusFound, filters.AddFilter(c.Request.URL, name, form.Value))
}

// tagBooks attaches one tag, created on first use, to every selected book.
func (cc *CatalogController) tagBooks(c *gin.Context) {
	value := strings.TrimSpace(c.PostForm("tag"))
	if value == "" {
		respondBadRequest(c, "Tag is required")
		return
	}
	ids, err := parseIDs(c.PostFormArray("book_id"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	target := security.SafeRedirect(c.PostForm("redirect"), "/")

	if len(ids) == 0 {
		cc.flash(c, session.FlashError, "No books selected")
		c.Redirect(http.StatusFound, target)
		return
	}

	tag, err := cc.tags.GetOrCreateTag(value)
	if err != nil {
		respondInternalError(c, err, "get or create tag")
		return
	}
	if err := cc.tags.AddTagToBooks(ids, tag.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Book")
			return
		}
		respondInternalError(c, err, "tag books")
		return
	}

	cc.flash(c, session.FlashSuccess, fmt.Sprintf("Tagged %d book(s) with %q", len(ids), tag.Value))
	c.Redirect(http.StatusFound, target)
}

// editBooks opens the bulk editor for the selected books.
func (cc *CatalogController) editBooks(c *gin.Context) {
	ids, err := parseIDs(c.PostFormArray("book_id"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	query := url.Values{}
	for _, id := range ids {
		query.Add("book_id", fmt.Sprint(id))
	}
	query.Set("redirect", security.SafeRedirect(c.PostForm("redirect"), "/"))

	c.Redirect(http.StatusFound, "/records?"+query.Encode())
}
