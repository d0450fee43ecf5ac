package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/internal/logger"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		kind usecase.ErrorKind
		want int
	}{
		{usecase.KindInvalidInput, http.StatusBadRequest},
		{usecase.KindInvalidQuantity, http.StatusBadRequest},
		{usecase.KindEmptyCart, http.StatusBadRequest},
		{usecase.KindNoActiveCart, http.StatusBadRequest},
		{usecase.KindInsufficientStock, http.StatusBadRequest},
		{usecase.KindBookNotFound, http.StatusNotFound},
		{usecase.KindCartNotFound, http.StatusNotFound},
		{usecase.KindItemNotFound, http.StatusNotFound},
		{usecase.KindNoPlacedOrder, http.StatusNotFound},
		{usecase.KindConcurrencyConflict, http.StatusConflict},
		{usecase.KindUnauthorized, http.StatusUnauthorized},
		{usecase.KindForbidden, http.StatusForbidden},
		{usecase.KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusOf(tc.kind), string(tc.kind))
	}
}

func TestWriteError_UsecaseError(t *testing.T) {
	c, rec := newTestContext(t)

	err := writeError(c, usecase.NewError(usecase.KindBookNotFound, "book not found"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp APIResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "book not found", resp.Message)
	assert.Equal(t, "BOOK_NOT_FOUND", resp.Error)
}

func TestWriteError_UnexpectedError(t *testing.T) {
	logger.Log = zap.NewNop()

	c, rec := newTestContext(t)

	err := writeError(c, assert.AnError)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp APIResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "an unexpected error occurred", resp.Message)
}

func TestWriteSuccess(t *testing.T) {
	c, rec := newTestContext(t)

	err := writeSuccess(c, http.StatusCreated, "item added to cart", map[string]int{"id": 1})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp APIResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "item added to cart", resp.Message)
	assert.NotNil(t, resp.Data)
}
