package handler

import (
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/logger"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// ProductID names the offending cart line of a failed checkout.
	ProductID uint `json:"product_id,omitempty"`
}

// Validator adapts go-playground/validator to echo.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperr.Validation(strings.ToLower(fe.Field()), describe(fe))
	}
	return apperr.Validation("", err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// ErrorHandler renders errors as {"code","message"} with the status
// apperr.Status picks. Unknown errors are logged and hidden behind a 500.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := render(err)
		if status >= http.StatusInternalServerError {
			logger.FromContext(log, c).Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func render(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ErrorResponse{
			Code:    strings.ToLower(strings.ReplaceAll(http.StatusText(he.Code), " ", "_")),
			Message: fmt.Sprint(he.Message),
		}
	}

	status, known := apperr.Status(err)
	if !known {
		return status, ErrorResponse{Code: "internal_error", Message: "something went wrong"}
	}

	resp := ErrorResponse{Code: errorCode(err), Message: err.Error()}
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		resp.ProductID = ve.ProductID
	}
	return status, resp
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, apperr.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, apperr.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, apperr.ErrTokenInvalid):
		return "token_invalid"
	case errors.Is(err, apperr.ErrUnauthenticated):
		return "unauthenticated"
	case apperr.IsValidation(err):
		return "validation_error"
	case apperr.IsNotFound(err):
		return "not_found"
	case apperr.IsPermission(err):
		return "permission_denied"
	}
	return "error"
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.Validation("", "invalid request body")
	}
	return c.Validate(req)
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation(name, "must be a positive integer")
	}
	return uint(id), nil
}

func queryPage(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		return 1
	}
	return page
}
