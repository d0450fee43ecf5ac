package middleware

import (
	"net/http"

	"bookstore/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleがSELLERかどうかを確認します。

func SellerRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//BUYERは拒否、SELLERだけ許可
			if role != string(model.RoleSeller) {
				return c.JSON(http.StatusForbidden, errorJSON("seller only"))
			}

			return next(c)
		}
	}
}
