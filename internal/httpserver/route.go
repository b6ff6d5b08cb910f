package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/kindones/storefront/pkg/middleware/auth"
	"github.com/kindones/storefront/pkg/middleware/csrf"
)

type Deps struct {
	OrderHandler       *OrderHTTP
	MenuHandler        *MenuHTTP
	GovernorateHandler *GovernorateHTTP
	Auth               *authmw.Auth

	// Ready reports whether dependencies are reachable.
	Ready func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	orders := e.Group("/orders")
	orders.POST("", d.OrderHandler.PlaceOrder, d.Auth.OptionalAuth)
	orders.GET("", d.OrderHandler.ListOrders, d.Auth.RequireAuth)

	e.GET("/governorates", d.GovernorateHandler.ListActive)

	menu := e.Group("/menu")
	menu.GET("", d.MenuHandler.ListMenu)
	menu.GET("/search", d.MenuHandler.SearchMenu)
	menu.GET("/:slug", d.MenuHandler.GetMenuItem)

	admin := e.Group("/admin", d.Auth.RequireAdmin, csrf.Middleware(csrf.DefaultConfig()))

	admin.GET("/menu", d.MenuHandler.AdminListMenu)
	admin.POST("/menu", d.MenuHandler.CreateMenuItem)
	admin.GET("/menu/:id", d.MenuHandler.AdminGetMenuItem)
	admin.PATCH("/menu/:id", d.MenuHandler.PatchMenuItem)
	admin.DELETE("/menu/:id", d.MenuHandler.DeleteMenuItem)

	admin.GET("/governorates", d.GovernorateHandler.AdminList)
	admin.POST("/governorates", d.GovernorateHandler.Create)
	admin.PATCH("/governorates/:id", d.GovernorateHandler.Patch)
	admin.DELETE("/governorates/:id", d.GovernorateHandler.Delete)

	admin.GET("/orders", d.OrderHandler.AdminListOrders)
	admin.GET("/orders/:id", d.OrderHandler.AdminGetOrder)
	admin.PATCH("/orders/:id/status", d.OrderHandler.AdminUpdateStatus)
}
