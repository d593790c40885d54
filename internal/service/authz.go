package service

import (
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/model"
	"fmt"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Role   model.Role
}

func RequireRole(actor Actor, role model.Role) error {
	if actor.UserID == 0 {
		return apperr.ErrUnauthenticated
	}
	if actor.Role != role {
		return apperr.Forbidden(fmt.Sprintf("you must be a %s to do that", role))
	}
	return nil
}

// AuthorizeStoreOwner is called first by every vendor mutation. Only the
// vendor owning the store may change it or its products.
func AuthorizeStoreOwner(actor Actor, store *model.Store) error {
	if err := RequireRole(actor, model.RoleVendor); err != nil {
		return err
	}
	if store.OwnerID != actor.UserID {
		return apperr.Forbidden(fmt.Sprintf("store %d belongs to another vendor", store.ID))
	}
	return nil
}
