// Package notify delivers buyer-facing notifications: order confirmations
// with an invoice and password reset links.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderLine struct {
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type OrderConfirmation struct {
	OrderID    uint            `json:"order_id"`
	BuyerName  string          `json:"buyer_name"`
	BuyerEmail string          `json:"buyer_email"`
	Lines      []OrderLine     `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	PlacedAt   time.Time       `json:"placed_at"`
}

// Invoice renders the plain-text invoice attached to the confirmation.
func (c OrderConfirmation) Invoice() string {
	var b strings.Builder
	fmt.Fprintf(&b, "INVOICE for Order #%d\n", c.OrderID)
	fmt.Fprintf(&b, "Customer: %s (%s)\n\n", c.BuyerName, c.BuyerEmail)
	b.WriteString("Items:\n")
	for _, line := range c.Lines {
		fmt.Fprintf(&b, "- %s (x%d) @ $%s = $%s\n",
			line.ProductName, line.Quantity, line.UnitPrice.StringFixed(2), line.LineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTOTAL: $%s\n\n", c.Total.StringFixed(2))
	b.WriteString("Thank you for your purchase!")
	return b.String()
}

type PasswordReset struct {
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	ResetURL  string        `json:"reset_url"`
	ExpiresIn time.Duration `json:"-"`
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, c OrderConfirmation) error
	SendPasswordReset(ctx context.Context, r PasswordReset) error
}
