package handler

import (
	"net/http"
	"strconv"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/middleware"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /booksのHTTP。読み取りは認証のみ、書き込みはSELLERだけ。
type BookHandler struct {
	uc *usecase.BookUsecase
}

// DI
func NewBookHandler(uc *usecase.BookUsecase) *BookHandler {
	return &BookHandler{uc: uc}
}

type BookRequest struct {
	Name        string `json:"name"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	PublishDate string `json:"publish_date"` // YYYY-MM-DD
	Stock       int64  `json:"stock"`
}

type RestockRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

func (h *BookHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/books")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/:id", h.detail)

	s := g.Group("")
	s.Use(middleware.SellerRoleGuard())
	s.POST("", h.create)
	s.PUT("/:id", h.update)
	s.DELETE("/:id", h.delete)
	s.PATCH("/:id/stock", h.restock)
}

func (h *BookHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return writeError(c, err)
	}
	return writeSuccess(c, http.StatusOK, "books retrieved successfully", out)
}

func (h *BookHandler) detail(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), bookID)
	if err != nil {
		return writeError(c, err)
	}
	return writeSuccess(c, http.StatusOK, "book retrieved successfully", out)
}

func (h *BookHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid body"})
	}

	publishDate, err := parseDate(req.PublishDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid publish_date"})
	}

	out, err := h.uc.Create(c.Request().Context(), userID, usecase.CreateBookInput{
		Name:        req.Name,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
		PublishDate: publishDate,
		Stock:       req.Stock,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusCreated, "book created successfully", out)
}

func (h *BookHandler) update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid id"})
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid body"})
	}

	publishDate, err := parseDate(req.PublishDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid publish_date"})
	}

	out, err := h.uc.Update(c.Request().Context(), userID, bookID, usecase.UpdateBookInput{
		Name:        req.Name,
		Author:      req.Author,
		Description: req.Description,
		Price:       req.Price,
		PublishDate: publishDate,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusOK, "book updated successfully", out)
}

func (h *BookHandler) delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), userID, bookID); err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusOK, "book deleted successfully", nil)
}

func (h *BookHandler) restock(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, APIResponse{Status: "error", Message: "unauthorized"})
	}

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid id"})
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIResponse{Status: "error", Message: "invalid body"})
	}

	out, err := h.uc.Restock(c.Request().Context(), userID, bookID, usecase.RestockInput{
		Stock:  req.Stock,
		Reason: req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeSuccess(c, http.StatusOK, "stock updated successfully", out)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}
