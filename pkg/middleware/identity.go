package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type contextKey string

const researcherIDKey contextKey = "researcher_id"

// NewIdentityMiddleware resolves the acting researcher from the X-Researcher-ID
// header set by the upstream identity service and stores it on the request context.
func NewIdentityMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get("X-Researcher-ID")
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, Response{
					Status:  http.StatusUnauthorized,
					Message: "Missing researcher identity",
				})
			}

			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return c.JSON(http.StatusUnauthorized, Response{
					Status:  http.StatusUnauthorized,
					Message: "Invalid researcher identity",
				})
			}

			ctx := context.WithValue(c.Request().Context(), researcherIDKey, uint(id))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// ResearcherIDFromContext returns the researcher id placed by the identity middleware.
func ResearcherIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(researcherIDKey).(uint)
	return id, ok
}
