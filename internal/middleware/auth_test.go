package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/probe", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":  CallerID(c),
			"isAdmin": IsAdmin(c),
		})
	})
	return router
}

func TestRequireUser_MissingIdentity(t *testing.T) {
	router := newAuthRouter(RequireUser())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUser_ForwardedIdentity(t *testing.T) {
	router := newAuthRouter(RequireUser())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("X-User-ID", "user-42")
	req.Header.Set("X-User-Role", "customer")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-42")
	assert.Contains(t, w.Body.String(), `"isAdmin":false`)
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	router := newAuthRouter(RequireAdmin())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("X-User-ID", "user-42")
	req.Header.Set("X-User-Role", "customer")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_MissingIdentityIsUnauthorized(t *testing.T) {
	router := newAuthRouter(RequireAdmin())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("X-User-Role", "admin")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	router := newAuthRouter(RequireAdmin())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("X-User-ID", "admin-1")
	req.Header.Set("X-User-Role", "admin")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isAdmin":true`)
}
