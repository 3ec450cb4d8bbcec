package security

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-32-bytes-long!!!")

func init() {
	gin.SetMode(gin.TestMode)
}

func csrfRouter(reached *bool) *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, string(CSRFTokenField(c)))
	})
	router.POST("/form", func(c *gin.Context) {
		*reached = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	var reached bool
	rr := httptest.NewRecorder()
	csrfRouter(&reached).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/form", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="gorilla.csrf.Token"`)
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	var reached bool
	rr := httptest.NewRecorder()
	csrfRouter(&reached).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/form", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, reached, "handler must not run after a CSRF failure")
}

func TestCSRFMiddleware_AcceptsValidToken(t *testing.T) {
	var reached bool
	router := csrfRouter(&reached)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	start := strings.Index(body, `value="`) + len(`value="`)
	token := body[start : start+strings.Index(body[start:], `"`)]
	require.NotEmpty(t, token)

	form := url.Values{CSRFFieldName: {token}}
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range rr.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, reached)
}

func TestCSRFErrorHandler_RedirectsToReferer(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "http://catalog.local/books/1/tags", nil)
	req.Header.Set("Referer", "http://catalog.local/books/1")

	csrfErrorHandler(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "http://catalog.local/books/1?error=Form+expired.+Please+try+again.", rr.Header().Get("Location"))
}

func TestCSRFErrorHandler_ForeignReferer(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "http://catalog.local/", nil)
	req.Header.Set("Referer", "https://evil.example/")

	csrfErrorHandler(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCSRFTokenField_NoToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", string(CSRFTokenField(c)))
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
}

func TestIsLocalPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/?author~=Le&page=2", true},
		{"", false},
		{"books", false},
		{"//evil.com", false},
		{"/redirect?to=https://evil.com", false},
		{"/\\evil.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsLocalPath(tt.path), tt.path)
	}

	assert.Equal(t, "/", SafeRedirect("https://evil.com", "/"))
	assert.Equal(t, "/books/2", SafeRedirect("/books/2", "/"))
}
