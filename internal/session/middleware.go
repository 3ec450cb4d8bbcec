package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// committingWriter saves a changed session and sets its cookie just before
// the response headers are sent. Redirects carry the flash this way.
type committingWriter struct {
	gin.ResponseWriter
	manager *Manager
	ctx     context.Context
	once    sync.Once
}

func (w *committingWriter) commit() {
	w.once.Do(func() {
		switch w.manager.Status(w.ctx) {
		case scs.Modified:
			token, expiry, err := w.manager.Commit(w.ctx)
			if err != nil {
				zap.S().Errorf("Failed to save session: %v", err)
				return
			}
			w.manager.WriteSessionCookie(w.ctx, w.ResponseWriter, token, expiry)
		case scs.Destroyed:
			w.manager.WriteSessionCookie(w.ctx, w.ResponseWriter, "", time.Time{})
		}
	})
}

func (w *committingWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *committingWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *committingWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *committingWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

// Middleware loads the session named by the request cookie into the request
// context and saves it once the handler is done with it.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(m.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := m.Load(c.Request.Context(), token)
		if err != nil {
			zap.S().Errorf("Failed to load session: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		writer := &committingWriter{ResponseWriter: c.Writer, manager: m, ctx: ctx}
		c.Writer = writer
		c.Next()

		// no-op when the handler already wrote
		writer.commit()
	}
}
