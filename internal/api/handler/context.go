package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/theagilemonkeys/crm-api/internal/api/middleware"
)

// ctxLogin extracts the principal's login injected by the Auth middleware.
// An empty login means the middleware did not run; reject with 401.
func ctxLogin(c echo.Context) (string, error) {
	login, _ := c.Get(middleware.CtxLogin).(string)
	if login == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return login, nil
}

// ctxClaims extracts the raw claim set injected by the Auth middleware.
func ctxClaims(c echo.Context) (jwt.MapClaims, error) {
	claims, _ := c.Get(middleware.CtxClaims).(jwt.MapClaims)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
