package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestNotFound(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		NotFound(c, "investment not found")
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, ErrNotFound, resp.Error.Code)
	assert.Equal(t, "investment not found", resp.Error.Message)
}

func TestBadRequest_WithDetails(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		BadRequest(c, "invalid redemption date", map[string]interface{}{
			"redemption_date": "before purchase date",
		})
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, ErrBadRequest, resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "redemption_date")
}

func TestConflict(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Conflict(c, "redemption period has expired", map[string]interface{}{
			"clear_title_eligible": true,
		})
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, ErrConflict, resp.Error.Code)
	assert.Equal(t, true, resp.Error.Details["clear_title_eligible"])
}

func TestInternalServerError_HidesDetails(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		InternalServerError(c, "failed to persist redemption", errors.New("pq: connection refused"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, ErrInternalServer, resp.Error.Code)
	// The raw error never reaches the client.
	assert.NotContains(t, w.Body.String(), "connection refused")
}
