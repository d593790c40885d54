package handler

import (
	"ecommerce-shop/internal/dto"
	"ecommerce-shop/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type PasswordHandler struct {
	resetService service.PasswordResetService
}

func NewPasswordHandler(resetService service.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{
		resetService: resetService,
	}
}

func (h *PasswordHandler) Forgot(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.resetService.RequestReset(ctx, req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, dto.MessageResponse{
		Message: "If an account exists for that email, a password reset link has been sent.",
	})
}

func (h *PasswordHandler) ValidateToken(c echo.Context) error {
	ctx := c.Request().Context()

	status, err := h.resetService.ValidateToken(ctx, c.Param("token"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TokenStatusResponse{Status: status})
}

func (h *PasswordHandler) Reset(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.resetService.ResetPassword(ctx, c.Param("token"), req.Password1, req.Password2); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Your password has been reset."})
}
