package handler

import (
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/dto"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorHandler_RendersTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.InvalidLine(3, "product is no longer available"), http.StatusBadRequest, "validation_error"},
		{apperr.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
		{apperr.ErrTokenExpired, http.StatusBadRequest, "token_expired"},
		{fmt.Errorf("load: %w", apperr.NotFound("store", 2)), http.StatusNotFound, "not_found"},
		{apperr.Forbidden("store 1 belongs to another vendor"), http.StatusForbidden, "permission_denied"},
		{apperr.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method_not_allowed"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(zap.NewNop())(tc.err, c)

			assert.Equal(t, tc.status, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Code)
		})
	}
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/checkout", nil), rec)

	ErrorHandler(zap.New(core))(errors.New("database is on fire"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "fire")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)
}

func TestErrorHandler_ReportsCartLine(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	ErrorHandler(zap.NewNop())(apperr.InvalidLine(42, "not enough stock left"), c)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(42), resp.ProductID)
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&dto.AddCartItemRequest{ProductID: 1, Quantity: 0})
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "quantity", ve.Field)

	err = v.Validate(&dto.ReviewRequest{Rating: 9, Comment: "x"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "rating", ve.Field)
	assert.Equal(t, "must be at most 5", ve.Reason)

	assert.NoError(t, v.Validate(&dto.ForgotPasswordRequest{Email: "bob@example.com"}))
	assert.Error(t, v.Validate(&dto.ForgotPasswordRequest{Email: "bob"}))
}

func TestBindAndValidate_RejectsMalformedBody(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var body dto.StoreRequest
	assert.True(t, apperr.IsValidation(bindAndValidate(c, &body)))
}
