package handler

import (
	"net/http"

	"bookstore/internal/config"
	"bookstore/internal/middleware"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.place)
	g.PATCH("", h.cancel)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	out, err := h.uc.ListOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusOK, "order details retrieved", out)
}

func (h *OrderHandler) place(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusOK, "order placed successfully", out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	out, err := h.uc.CancelOrder(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusOK, "order canceled successfully", out)
}
