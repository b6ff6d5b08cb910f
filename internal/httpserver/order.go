package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kindones/storefront/internal/service"
	"github.com/kindones/storefront/internal/transport"
	"github.com/kindones/storefront/pkg/logging"
	"github.com/kindones/storefront/pkg/pagination"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid order request.")
	}

	order, err := h.Svc.PlaceOrder(ctx, req, sessionOf(c))
	if err != nil {
		return httpError(l, "place_order_error", err, genericOrderError)
	}

	l.Info("place_order_success", "status", 201, "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.OrderSummaryOf(order))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	orders, err := h.Svc.ListOrders(ctx, sessionOf(c))
	if err != nil {
		return httpError(l, "list_orders_error", err, "Unable to load orders.")
	}

	l.Info("list_orders_success", "count", len(orders))
	return c.JSON(http.StatusOK, transport.OrderSummaries(orders, false))
}

func (h *OrderHTTP) AdminListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_orders")

	page := pagination.ParseIntDefault(c.QueryParam("page"), 1)
	size := pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize)
	offset, limit := pagination.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	total, orders, err := h.Svc.ListAllOrders(ctx, offset, limit)
	if err != nil {
		return httpError(l, "admin_list_orders_error", err, "Unable to load orders.")
	}

	l.Info("admin_list_orders_success", "count", len(orders))
	return c.JSON(http.StatusOK, transport.OrderPage{
		Data: transport.OrderSummaries(orders, true),
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	})
}

func (h *OrderHTTP) AdminGetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_order")

	order, err := h.Svc.GetOrder(ctx, c.Param("id"))
	if err != nil {
		return httpError(l, "admin_get_order_error", err, "Unable to load order.")
	}
	return c.JSON(http.StatusOK, transport.AdminOrderSummaryOf(order))
}

func (h *OrderHTTP) AdminUpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request.")
	}

	order, err := h.Svc.UpdateStatus(ctx, c.Param("id"), req)
	if err != nil {
		return httpError(l, "update_order_status_error", err, "Unable to update order.")
	}

	l.Info("update_order_status_success", "order_id", order.ID, "to", order.Status)
	return c.JSON(http.StatusOK, transport.AdminOrderSummaryOf(order))
}
