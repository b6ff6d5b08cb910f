package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/kindones/storefront/internal/domain"
)

// sessionOf reads what the auth middleware stored. Nil when anonymous.
func sessionOf(c echo.Context) *domain.Session {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return nil
	}
	s := &domain.Session{UserID: id}
	s.Email, _ = c.Get("email").(string)
	s.Name, _ = c.Get("name").(string)
	s.Role, _ = c.Get("role").(string)
	return s
}
