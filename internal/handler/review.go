package handler

import (
	"ecommerce-shop/internal/dto"
	"ecommerce-shop/internal/middleware"
	"ecommerce-shop/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	reviews, err := h.reviewService.ListReviews(ctx, productID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.CreateReview(ctx, middleware.Actor(c), productID, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, review)
}
