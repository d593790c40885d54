package handler

import (
	"ecommerce-shop/internal/dto"
	"ecommerce-shop/internal/middleware"
	"ecommerce-shop/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type VendorHandler struct {
	catalogService service.CatalogService
}

func NewVendorHandler(catalogService service.CatalogService) *VendorHandler {
	return &VendorHandler{
		catalogService: catalogService,
	}
}

func (h *VendorHandler) ListStores(c echo.Context) error {
	ctx := c.Request().Context()

	stores, err := h.catalogService.ListMyStores(ctx, middleware.Actor(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stores)
}

func (h *VendorHandler) CreateStore(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.StoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	store, err := h.catalogService.CreateStore(ctx, middleware.Actor(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, store)
}

func (h *VendorHandler) UpdateStore(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.StoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	store, err := h.catalogService.UpdateStore(ctx, middleware.Actor(c), storeID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, store)
}

func (h *VendorHandler) DeleteStore(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteStore(ctx, middleware.Actor(c), storeID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *VendorHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	products, err := h.catalogService.ListStoreProducts(ctx, middleware.Actor(c), storeID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *VendorHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogService.CreateProduct(ctx, middleware.Actor(c), storeID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *VendorHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.catalogService.UpdateProduct(ctx, middleware.Actor(c), storeID, productID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *VendorHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteProduct(ctx, middleware.Actor(c), storeID, productID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
