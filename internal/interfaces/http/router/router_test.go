package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": message})
	}
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	logbook := NewDomainGroup("logbook", "/logbook")
	logbook.GET("/templates", okHandler("templates"))
	logbook.POST("/submissions", okHandler("submitted"))

	r.Register(logbook)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/logbook/templates", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/logbook/submissions", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v2/logbook/templates", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var seen bool
	admin := NewDomainGroup("admin", "/admin")
	admin.Use(func(c *gin.Context) {
		seen = true
		c.Next()
	})
	admin.POST("/templates/:id/restore", okHandler("restored"))

	r.Register(admin)
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/templates/x/restore", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, seen)
}

func TestDomainGroupAccessors(t *testing.T) {
	dg := NewDomainGroup("reports", "/reports")
	assert.Equal(t, "reports", dg.Name())
	assert.Equal(t, "/reports", dg.Prefix())
}
