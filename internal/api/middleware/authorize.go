package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/theagilemonkeys/crm-api/internal/api/metrics"
	"github.com/theagilemonkeys/crm-api/internal/core/domain"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// Authorize gates a route on the authorization policy for the given
// operation. A missing principal and a deny both answer 403 with an opaque
// body.
func Authorize(authz ports.Authorizer, op domain.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			login, _ := c.Get(CtxLogin).(string)

			if !authz.Authorize(c.Request().Context(), login, op) {
				metrics.AuthzDecisionsTotal.WithLabelValues(string(op), "deny").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			metrics.AuthzDecisionsTotal.WithLabelValues(string(op), "allow").Inc()
			return next(c)
		}
	}
}
