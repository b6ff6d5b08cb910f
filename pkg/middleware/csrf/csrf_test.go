package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(DefaultConfig()))
	e.Any("/admin/menu", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	return e
}

func TestCSRF(t *testing.T) {
	e := newEcho()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/menu", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	assert.NotEmpty(t, token)

	post := func(header string) int {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/admin/menu", nil)
		req.Header.Set("Origin", "http://example.com")
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, post(token))
	assert.Equal(t, http.StatusForbidden, post(""))
	assert.Equal(t, http.StatusForbidden, post("forged"))
}

func TestCSRF_CrossOriginRejected(t *testing.T) {
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "http://example.com/admin/menu", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "abc"})
	req.Header.Set("X-CSRF-Token", "abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRF_BearerSkips(t *testing.T) {
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "/admin/menu", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
