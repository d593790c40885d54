package handler

import (
	"ecommerce-shop/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListStores(c echo.Context) error {
	ctx := c.Request().Context()

	stores, err := h.catalogService.ListStores(ctx, c.QueryParam("q"), queryPage(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stores)
}

func (h *CatalogHandler) GetStore(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.catalogService.GetStoreDetail(ctx, storeID, c.QueryParam("q"), queryPage(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detail)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.catalogService.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}
