package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/openquill/inkwell/backend/internal/models"
)

// currentUserID extracts the authenticated user ID from the JWT claims set by
// the auth middleware. Zero means anonymous.
func currentUserID(c echo.Context) uint {
	if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
		return claims.UserID
	}
	return 0
}
