package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db         *database.Database
	version    string
	tagCleanup SchedulerStatus
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// SetTagCleanup adds the tag cleanup schedule to the report.
func (h *HealthController) SetTagCleanup(s SchedulerStatus) {
	h.tagCleanup = s
}

// Status reports whether the catalog database answers, and the state of the
// tag cleanup schedule when one is attached. A stopped schedule is reported
// but does not make the catalog unhealthy.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db == nil {
		checks["database"] = "not configured"
	} else if err := h.db.Ping(); err != nil {
		checks["database"] = "error: " + err.Error()
		status = "unhealthy"
	} else {
		checks["database"] = "ok"
		checks["driver"] = string(h.db.Driver)
	}

	if h.tagCleanup != nil {
		if !h.tagCleanup.IsRunning() {
			checks["tag_cleanup"] = "stopped"
		} else if next := h.tagCleanup.GetNextRunTime(); next != nil {
			checks["tag_cleanup"] = "next run " + next.Format(time.RFC3339)
		} else {
			checks["tag_cleanup"] = "running"
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}
