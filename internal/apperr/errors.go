package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrTokenExpired    = errors.New("reset token has expired")
	ErrTokenInvalid    = errors.New("reset token is invalid")
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError reports bad input. ProductID is set when the offending
// input is a cart line.
type ValidationError struct {
	ProductID uint
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	switch {
	case e.ProductID != 0:
		return fmt.Sprintf("cart line for product %d: %s", e.ProductID, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	default:
		return e.Reason
	}
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func InvalidLine(productID uint, reason string) error {
	return &ValidationError{ProductID: productID, Reason: reason}
}

type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NotFound(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: id}
}

type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	return "permission denied: " + e.Reason
}

func Forbidden(reason string) error {
	return &PermissionError{Reason: reason}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// Status maps an error to the HTTP status it is rendered with. The second
// return is false for errors that are not part of the taxonomy.
func Status(err error) (int, bool) {
	switch {
	case IsValidation(err), errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenInvalid):
		return http.StatusBadRequest, true
	case IsNotFound(err):
		return http.StatusNotFound, true
	case IsPermission(err):
		return http.StatusForbidden, true
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, true
	}
	return http.StatusInternalServerError, false
}
