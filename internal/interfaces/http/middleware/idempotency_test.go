package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/22Jason22/ferremateriales/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

func newIdempotentRouter(handler gin.HandlerFunc, mw gin.HandlerFunc) (*gin.Engine, *int) {
	calls := 0
	router := gin.New()
	router.Use(RequestID())
	router.POST("/invoices/:id/payments", mw, func(c *gin.Context) {
		calls++
		handler(c)
	})
	return router, &calls
}

func post(router *gin.Engine, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	created := func(c *gin.Context) { c.Status(http.StatusCreated) }

	t.Run("repeated key is rejected", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		router, calls := newIdempotentRouter(created, Idempotency(store, time.Hour))

		first := post(router, "/invoices/a/payments", "pay-1")
		second := post(router, "/invoices/a/payments", "pay-1")

		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), "DUPLICATE_REQUEST")
		assert.Equal(t, 1, *calls)
	})

	t.Run("same key on another resource is accepted", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		router, calls := newIdempotentRouter(created, Idempotency(store, time.Hour))

		assert.Equal(t, http.StatusCreated, post(router, "/invoices/a/payments", "pay-1").Code)
		assert.Equal(t, http.StatusCreated, post(router, "/invoices/b/payments", "pay-1").Code)
		assert.Equal(t, 2, *calls)
	})

	t.Run("requests without a key pass through", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore(time.Minute)
		defer store.Close()
		router, calls := newIdempotentRouter(created, Idempotency(store, time.Hour))

		post(router, "/invoices/a/payments", "")
		post(router, "/invoices/a/payments", "")
		assert.Equal(t, 2, *calls)
		assert.Equal(t, 0, store.Size())
	})

	t.Run("store failure answers 503", func(t *testing.T) {
		store := new(mockStore)
		store.On("MarkProcessed", mock.Anything, mock.Anything, time.Hour).Return(false, errors.New("redis down"))
		router, calls := newIdempotentRouter(created, Idempotency(store, time.Hour))

		w := post(router, "/invoices/a/payments", "pay-1")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, 0, *calls)
		store.AssertExpectations(t)
	})

	t.Run("overlong key is rejected", func(t *testing.T) {
		store := new(mockStore)
		router, calls := newIdempotentRouter(created, Idempotency(store, time.Hour))

		w := post(router, "/invoices/a/payments", strings.Repeat("k", 200))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, *calls)
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})
}
