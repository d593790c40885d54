package handler

import (
	"ecommerce-shop/internal/dto"
	"ecommerce-shop/internal/middleware"
	"ecommerce-shop/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) View(c echo.Context) error {
	ctx := c.Request().Context()

	view, err := h.cartService.View(ctx, middleware.Actor(c), middleware.SessionID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor, sessionID := middleware.Actor(c), middleware.SessionID(c)
	if err := h.cartService.Add(ctx, actor, sessionID, req.ProductID, req.Quantity); err != nil {
		return err
	}

	view, err := h.cartService.View(ctx, actor, sessionID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}

	actor, sessionID := middleware.Actor(c), middleware.SessionID(c)
	if err := h.cartService.Remove(ctx, actor, sessionID, productID); err != nil {
		return err
	}

	view, err := h.cartService.View(ctx, actor, sessionID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}
