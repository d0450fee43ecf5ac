package server

import (
	"bookstore/internal/config"
	"bookstore/internal/handler"
	"bookstore/internal/middleware"

	"github.com/labstack/echo/v4"
)

// New はechoを組み立ててルートを登録する。
func New(
	cfg config.Config,
	authH *handler.AuthHandler,
	bookH *handler.BookHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())

	authH.RegisterRoutes(e)
	bookH.RegisterRoutes(e, cfg)
	cartH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)

	return e
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
