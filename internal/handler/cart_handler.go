package handler

import (
	"net/http"
	"strconv"

	"bookstore/internal/config"
	"bookstore/internal/middleware"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type UpsertItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// /cart, /cart/items/{book_id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.getCart)
	g.DELETE("", h.clearCart)
	g.POST("/items/:book_id", h.upsertItem)
	g.DELETE("/items/:book_id", h.removeItem)
}

func (h *CartHandler) clearCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	if err := h.uc.ClearCart(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusOK, "cart cleared successfully", nil)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusOK, "cart retrieved successfully", out)
}

func (h *CartHandler) upsertItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid book id"})
	}

	var req UpsertItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid body"})
	}

	out, err := h.uc.UpsertItem(c.Request().Context(), userID, bookID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusCreated, "item added to cart", out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid book id"})
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), userID, bookID)
	if err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusOK, "item removed from cart", out)
}
