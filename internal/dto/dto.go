package dto

import (
	"ecommerce-shop/internal/model"

	"github.com/shopspring/decimal"
)

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1,max=1000"`
}

type CartLine struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
	// Unavailable lists cart entries whose product was removed or hidden.
	Unavailable []uint `json:"unavailable,omitempty"`
}

type StoreRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description"`
}

type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=150"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"min=0"`
	IsActive    *bool           `json:"is_active"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type StoreList struct {
	Stores []*model.Store `json:"stores"`
	Page   Page           `json:"page"`
}

type StoreDetail struct {
	Store    *model.Store     `json:"store"`
	Products []*model.Product `json:"products"`
	Page     Page             `json:"page"`
	Rating   model.Rating     `json:"rating"`
}

type ProductDetail struct {
	Product *model.Product  `json:"product"`
	Reviews []*model.Review `json:"reviews"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

type TokenStatusResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
