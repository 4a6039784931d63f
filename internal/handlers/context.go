package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/threadwave/backend/internal/models"
)

// getUserIDFromContext returns the authenticated principal's user ID from
// the JWT claims set by the auth middleware, or 0 when absent.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// paginationParams reads optional skip/limit query params with a default cap
func paginationParams(c echo.Context) (int64, int64) {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return skip, limit
}
