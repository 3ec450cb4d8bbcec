package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/covers"
)

// CoversController handles book cover requests.
type CoversController struct {
	cache *covers.Cache
	books BookGetter
}

// NewCoversController creates a new CoversController.
func NewCoversController(cache *covers.Cache, books BookGetter) *CoversController {
	return &CoversController{
		cache: cache,
		books: books,
	}
}

// GetCover serves the cached cover image of a book.
// GET /books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.books.GetBookByID(id)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	// Get cached cover (will fetch if not cached)
	cachePath, err := cc.cache.GetCover(c.Request.Context(), book.ISBN)
	if errors.Is(err, covers.ErrNoCover) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		zap.S().Warnf("Cover for book %d unavailable: %v", id, err)
		c.Status(http.StatusBadGateway)
		return
	}

	// Serve the cached file
	c.File(cachePath)
}
