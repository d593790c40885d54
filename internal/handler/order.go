package handler

import (
	"ecommerce-shop/internal/middleware"
	"ecommerce-shop/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
}

func NewOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.checkoutService.Checkout(ctx,
		middleware.Actor(c),
		middleware.SessionID(c),
		c.Request().Header.Get(IdempotencyKeyHeader),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListOrders(ctx, middleware.Actor(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOrder(ctx, middleware.Actor(c), orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}
