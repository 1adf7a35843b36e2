package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/22Jason22/ferremateriales/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewGinContext returns a handler context for method and target. A non-nil
// body is sent as JSON.
func NewGinContext(t *testing.T, method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = JSONBody(t, body)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

// JSONBody encodes v as a request body
func JSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	if s, ok := v.(string); ok {
		return bytes.NewBufferString(s)
	}
	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal request body")
	return bytes.NewReader(data)
}

// DecodeResponse unmarshals the API envelope written to w
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to decode response: %s", w.Body.String())
	return resp
}

// AssertError checks that w holds a failed envelope with status and code and
// returns its error details
func AssertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) dto.ErrorInfo {
	t.Helper()
	assert.Equal(t, status, w.Code, "Unexpected status code")
	resp := DecodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error, "Expected an error object")
	assert.Equal(t, code, resp.Error.Code)
	return *resp.Error
}
