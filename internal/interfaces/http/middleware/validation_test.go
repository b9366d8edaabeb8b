package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchenops/backend/internal/interfaces/http/dto"
)

type createRolePayload struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required,min=2"`
}

func TestSetupValidator_UsesJSONTagNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	engine := gin.New()
	engine.POST("/roles", func(c *gin.Context) {
		var req createRolePayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/roles", strings.NewReader(`{"slug":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"name"`)
	assert.Contains(t, w.Body.String(), "This field is required")
	assert.Contains(t, w.Body.String(), "Must be at least 2 characters")
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Empty(t, resp.Error.Fields)
}
