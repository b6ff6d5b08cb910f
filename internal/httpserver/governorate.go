package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kindones/storefront/internal/service"
	"github.com/kindones/storefront/internal/transport"
	"github.com/kindones/storefront/pkg/logging"
)

type GovernorateHTTP struct {
	Svc *service.GovernorateService
}

func (h *GovernorateHTTP) ListActive(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "governorate.list_active")

	gs, err := h.Svc.ListActive(ctx)
	if err != nil {
		return httpError(l, "list_governorates_error", err, "Unable to load delivery areas.")
	}
	return c.JSON(http.StatusOK, transport.Governorates(gs))
}

func (h *GovernorateHTTP) AdminList(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_governorates")

	gs, err := h.Svc.List(ctx)
	if err != nil {
		return httpError(l, "admin_list_governorates_error", err, "Unable to load delivery areas.")
	}
	return c.JSON(http.StatusOK, transport.Governorates(gs))
}

func (h *GovernorateHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_governorate")

	var req transport.CreateGovernorateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_governorate_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request.")
	}

	g, err := h.Svc.Create(ctx, req)
	if err != nil {
		return httpError(l, "create_governorate_error", err, "Unable to create delivery area.")
	}
	l.Info("create_governorate_success", "governorate_id", g.ID)
	return c.JSON(http.StatusCreated, transport.GovernorateOf(g))
}

func (h *GovernorateHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.patch_governorate")

	var req transport.PatchGovernorateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_governorate_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request.")
	}

	g, err := h.Svc.Patch(ctx, c.Param("id"), req)
	if err != nil {
		return httpError(l, "patch_governorate_error", err, "Unable to update delivery area.")
	}
	l.Info("patch_governorate_success", "governorate_id", g.ID)
	return c.JSON(http.StatusOK, transport.GovernorateOf(g))
}

func (h *GovernorateHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_governorate")

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return httpError(l, "delete_governorate_error", err, "Unable to delete delivery area.")
	}
	l.Info("delete_governorate_success", "governorate_id", c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
