package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVisitorProbe() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(VisitorIdentity())
	probe := func(c *gin.Context) {
		c.String(http.StatusOK, VisitorID(c))
	}
	r.GET("/probe", probe)
	r.POST("/probe", probe)
	return r
}

func TestGetMintsVisitorCookie(t *testing.T) {
	r := newVisitorProbe()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, len(w.Body.String()), minVisitorIDLen)

	var issued *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == VisitorCookie {
			issued = c
		}
	}
	require.NotNil(t, issued, "expected a vid cookie on first GET")
	assert.Equal(t, VisitorCookieMaxAge, issued.MaxAge)
}

func TestExistingCookieIsPreserved(t *testing.T) {
	r := newVisitorProbe()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "abcdef0123456789"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abcdef0123456789", w.Body.String())
	for _, c := range w.Result().Cookies() {
		assert.NotEqual(t, VisitorCookie, c.Name, "no replacement cookie expected")
	}
}

func TestShortCookieIsReplacedOnGet(t *testing.T) {
	r := newVisitorProbe()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "short"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, "short", w.Body.String())
	assert.GreaterOrEqual(t, len(w.Body.String()), minVisitorIDLen)
}

func TestPostWithoutCookieHasNoIdentity(t *testing.T) {
	r := newVisitorProbe()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/probe", nil))

	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "write requests never mint identities")
}
