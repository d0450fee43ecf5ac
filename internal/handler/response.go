package handler

import (
	"net/http"

	"bookstore/internal/logger"
	"bookstore/internal/middleware"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIのレスポンス封筒。statusは success / error の2値。
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func writeSuccess(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// usecaseのエラー種別をHTTPステータスへ対応付ける。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	if ue, ok := usecase.AsError(err); ok {
		return c.JSON(statusOf(ue.Kind), APIResponse{
			Status:  "error",
			Message: ue.Message,
			Error:   string(ue.Kind),
		})
	}

	//想定外は500
	logger.Log.Error("unexpected error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, APIResponse{
		Status:  "error",
		Message: "an unexpected error occurred",
		Error:   string(usecase.KindInternal),
	})
}

func statusOf(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindInvalidInput, usecase.KindInvalidQuantity,
		usecase.KindEmptyCart, usecase.KindNoActiveCart, usecase.KindInsufficientStock:
		return http.StatusBadRequest
	case usecase.KindBookNotFound, usecase.KindCartNotFound,
		usecase.KindItemNotFound, usecase.KindNoPlacedOrder:
		return http.StatusNotFound
	case usecase.KindConcurrencyConflict:
		return http.StatusConflict
	case usecase.KindUnauthorized:
		return http.StatusUnauthorized
	case usecase.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	userID, ok := raw.(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
