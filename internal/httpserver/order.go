package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/store_manager/internal/service"
	"github.com/Skotchmaster/store_manager/internal/transport"
	"github.com/Skotchmaster/store_manager/internal/util"
	"github.com/Skotchmaster/store_manager/pkg/logging"
)

type OrderHTTP struct {
	Orders  *service.OrderService
	Queries *service.OrderQueries
	Syncer  *service.Syncer
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	lines := make([]service.LineRequest, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, service.LineRequest{ProductID: string(it.ProductID), Quantity: string(it.Quantity)})
	}

	id, err := h.Orders.AddOrder(ctx, req.UserID, lines)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			msg := validationMessage(err)
			l.Warn("create_order_error", "status", 400, "reason", msg, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msg)
		}
		l.Error("create_order_error", "status", 500, "reason", "cannot store order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store order")
	}

	l.Info("create_order_success", "order_id", id)
	return c.JSON(http.StatusCreated, transport.CreateOrderResponse{OrderID: id})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	limit := util.ParseIntDefault(c.QueryParam("limit"), service.DefaultOrderLimit)

	switch source := c.QueryParam("source"); source {
	case "", "store":
		orders, err := h.Queries.OrdersFromStore(ctx, limit)
		if err != nil {
			l.Error("list_orders_error", "status", 500, "reason", "cannot list orders", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
		}
		l.Info("list_orders_success", "source", "store", "count", len(orders))
		return c.JSON(http.StatusOK, map[string]any{"data": orders})
	case "cache":
		orders, err := h.Queries.OrdersFromMirror(ctx, limit)
		if err != nil {
			l.Error("list_orders_error", "status", 500, "reason", "cannot read cache", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot read cache")
		}
		l.Info("list_orders_success", "source", "cache", "count", len(orders))
		return c.JSON(http.StatusOK, map[string]any{"data": orders})
	default:
		l.Warn("list_orders_error", "status", 400, "reason", "unknown source", "source", source)
		return echo.NewHTTPError(http.StatusBadRequest, "source must be store or cache")
	}
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		l.Warn("get_order_error", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	switch source := c.QueryParam("source"); source {
	case "", "cache":
	case "store":
		order, err := h.Queries.OrderFromStore(ctx, id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				l.Warn("get_order_error", "status", 404, "reason", "order not found", "order_id", id)
				return echo.NewHTTPError(http.StatusNotFound, "order not found")
			}
			l.Error("get_order_error", "status", 500, "reason", "cannot load order", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot load order")
		}
		return c.JSON(http.StatusOK, order)
	default:
		l.Warn("get_order_error", "status", 400, "reason", "unknown source", "source", source)
		return echo.NewHTTPError(http.StatusBadRequest, "source must be store or cache")
	}

	rec, err := h.Queries.GetOrderByID(ctx, id)
	if err != nil {
		l.Error("get_order_error", "status", 500, "reason", "cannot read cache", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read cache")
	}
	if len(rec) == 0 {
		l.Warn("get_order_error", "status", 404, "reason", "order not cached", "order_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	return c.JSON(http.StatusOK, rec)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, ok := util.ParseID(c.Param("id"))
	if !ok {
		l.Warn("delete_order_error", "status", 400, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a positive integer")
	}

	n, err := h.Orders.DeleteOrder(ctx, id)
	if err != nil {
		l.Error("delete_order_error", "status", 500, "reason", "cannot delete order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete order")
	}
	if n == 0 {
		l.Warn("delete_order_error", "status", 404, "reason", "order not found", "order_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHTTP) SyncOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.sync_orders")

	res, err := h.Syncer.Sync(ctx)
	if err != nil {
		l.Error("sync_orders_error", "status", 500, "reason", "sync failed", "error", err)
		return c.JSON(http.StatusInternalServerError, res)
	}

	l.Info("sync_orders_success", "result", res.Status, "count", res.Count)
	return c.JSON(http.StatusOK, res)
}

// validationMessage drops the sentinel prefix from a validation error.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
}
