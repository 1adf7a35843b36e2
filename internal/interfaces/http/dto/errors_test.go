package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		kind     shared.ErrorKind
		expected int
	}{
		{shared.KindValidation, http.StatusBadRequest},
		{shared.KindNotFound, http.StatusNotFound},
		{shared.KindConflict, http.StatusConflict},
		{shared.KindStock, http.StatusUnprocessableEntity},
		{shared.KindConsistency, http.StatusUnprocessableEntity},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.kind))
		})
	}
}

func TestFromError(t *testing.T) {
	t.Run("domain error keeps its code and message", func(t *testing.T) {
		err := fmt.Errorf("record movement: %w", shared.NewStockError("INSUFFICIENT_STOCK", "only 6 in stock"))

		status, resp := FromError(err, "req-1")

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
		assert.Equal(t, "only 6 in stock", resp.Error.Message)
		assert.Equal(t, "req-1", resp.Error.RequestID)
	})

	t.Run("version conflict maps to 409", func(t *testing.T) {
		status, resp := FromError(shared.ErrVersionConflict, "")

		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "OPTIMISTIC_LOCK_FAILED", resp.Error.Code)
	})

	t.Run("other errors are hidden", func(t *testing.T) {
		status, resp := FromError(errors.New("dial tcp: connection refused"), "req-2")

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, ErrCodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "dial tcp")
	})
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 45, 2, 20)

	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, 2, resp.Meta.Page)

	empty := NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}

func TestErrorResponseJSON(t *testing.T) {
	body, err := json.Marshal(NewErrorResponse("NOT_FOUND", "account not found", "abc"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"account not found","request_id":"abc"}}`, string(body))
}
