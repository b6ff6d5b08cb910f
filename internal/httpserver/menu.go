package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kindones/storefront/internal/service"
	"github.com/kindones/storefront/internal/transport"
	"github.com/kindones/storefront/pkg/logging"
)

type MenuHTTP struct {
	Svc *service.MenuService
}

func (h *MenuHTTP) ListMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list_menu")

	items, err := h.Svc.ListActive(ctx, c.QueryParam("category"))
	if err != nil {
		return httpError(l, "list_menu_error", err, "Unable to load menu.")
	}
	return c.JSON(http.StatusOK, transport.MenuItems(items))
}

func (h *MenuHTTP) GetMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get_menu_item")

	item, err := h.Svc.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return httpError(l, "get_menu_item_error", err, "Unable to load menu item.")
	}
	return c.JSON(http.StatusOK, transport.MenuItemOf(item))
}

func (h *MenuHTTP) SearchMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search_menu")

	items, err := h.Svc.Search(ctx, c.QueryParam("q"))
	if err != nil {
		if errors.Is(err, service.ErrSearchDisabled) {
			l.Warn("search_menu_error", "status", 503, "reason", "search disabled")
			return echo.NewHTTPError(http.StatusServiceUnavailable, "Search is unavailable.")
		}
		return httpError(l, "search_menu_error", err, "Search failed.")
	}
	return c.JSON(http.StatusOK, transport.MenuItems(items))
}

func (h *MenuHTTP) AdminListMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_menu")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return httpError(l, "admin_list_menu_error", err, "Unable to load menu.")
	}
	return c.JSON(http.StatusOK, transport.MenuItems(items))
}

func (h *MenuHTTP) AdminGetMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_menu_item")

	item, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return httpError(l, "admin_get_menu_item_error", err, "Unable to load menu item.")
	}
	return c.JSON(http.StatusOK, transport.MenuItemOf(item))
}

func (h *MenuHTTP) CreateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_menu_item")

	var req transport.CreateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_menu_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request.")
	}

	item, err := h.Svc.Create(ctx, req)
	if err != nil {
		return httpError(l, "create_menu_item_error", err, "Unable to create menu item.")
	}

	l.Info("create_menu_item_success", "menu_item_id", item.ID)
	return c.JSON(http.StatusCreated, transport.MenuItemOf(item))
}

func (h *MenuHTTP) PatchMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.patch_menu_item")

	var req transport.PatchMenuItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_menu_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request.")
	}

	item, err := h.Svc.Patch(ctx, c.Param("id"), req)
	if err != nil {
		return httpError(l, "patch_menu_item_error", err, "Unable to update menu item.")
	}

	l.Info("patch_menu_item_success", "menu_item_id", item.ID)
	return c.JSON(http.StatusOK, transport.MenuItemOf(item))
}

func (h *MenuHTTP) DeleteMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_menu_item")

	id := c.Param("id")
	deactivated, err := h.Svc.Delete(ctx, id)
	if err != nil {
		return httpError(l, "delete_menu_item_error", err, "Unable to delete menu item.")
	}

	l.Info("delete_menu_item_success", "menu_item_id", id, "deactivated", deactivated)
	return c.JSON(http.StatusOK, transport.DeleteMenuItemResponse{ID: id, Deleted: !deactivated, Deactivated: deactivated})
}
