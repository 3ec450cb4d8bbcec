package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/security"
	"github.com/mrlokans/catalog/internal/session"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.String(http.StatusBadRequest, message)
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.String(http.StatusNotFound, resource+" not found")
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	zap.S().Errorf("Internal error (%s): %v", context, err)
	c.String(http.StatusInternalServerError, "Internal server error")
}

// respondLookupError maps a failed lookup to 404 or 500.
func respondLookupError(c *gin.Context, err error, resource string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, resource)
		return
	}
	respondInternalError(c, err, "load "+strings.ToLower(resource))
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "Invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseIDs converts repeated form values into ids.
func parseIDs(values []string) ([]uint, error) {
	ids := make([]uint, 0, len(values))
	for _, raw := range values {
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid book id %q", raw)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// --- HTML Pages ---

// pages renders templates with the values every layout expects: the CSRF
// field and the pending flash messages.
type pages struct {
	sessions *session.Manager
}

func (p pages) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CSRFField"] = security.CSRFTokenField(c)

	var flashes []session.Flash
	if p.sessions != nil {
		flashes = p.sessions.PopFlashes(c.Request.Context())
	}
	// Set by the CSRF error handler on the redirect back to the form
	if message := c.Query("error"); message != "" {
		flashes = append(flashes, session.Flash{Kind: session.FlashError, Message: message})
	}
	data["Flashes"] = flashes

	c.HTML(status, name, data)
}

func (p pages) flash(c *gin.Context, kind session.FlashKind, message string) {
	if p.sessions == nil {
		return
	}
	p.sessions.AddFlash(c.Request.Context(), kind, message)
}
