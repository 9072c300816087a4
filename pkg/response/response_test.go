package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Set("request_id", "req-1")

	JSON(c, Success(c, http.StatusCreated, map[string]int{"id": 7}, "created", nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, float64(7), body["data"].(map[string]any)["id"])
	assert.NotContains(t, body, "error")
}

func TestAbortStopsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := false
	r.GET("/", func(c *gin.Context) { Abort(c, http.StatusTooManyRequests, "slow down", nil) }, func(c *gin.Context) { reached = true })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.False(t, reached)
	assert.Contains(t, rr.Body.String(), `"success":false`)
}

func TestErrorDefaultsToBadRequest(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	r := Error[any](c, 0, "bad", map[string]string{"email": "is required"})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.False(t, r.Success)
}
