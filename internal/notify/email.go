package notify

import (
	"context"
	"fmt"
	"time"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Email struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

type EmailSender interface {
	SendEmail(ctx context.Context, email Email) (SendResult, error)
}

// EmailNotifier turns notifications into emails.
type EmailNotifier struct {
	sender EmailSender
}

func NewEmailNotifier(sender EmailSender) *EmailNotifier {
	return &EmailNotifier{sender: sender}
}

func (n *EmailNotifier) SendOrderConfirmation(ctx context.Context, c OrderConfirmation) error {
	_, err := n.sender.SendEmail(ctx, Email{
		To:      c.BuyerEmail,
		Subject: fmt.Sprintf("Your Invoice - Order #%d", c.OrderID),
		Body:    "Thanks for your order! Your invoice is attached.",
		Attachments: []Attachment{{
			Filename:    fmt.Sprintf("invoice_order_%d.txt", c.OrderID),
			ContentType: "text/plain",
			Content:     []byte(c.Invoice()),
		}},
	})
	if err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	return nil
}

func (n *EmailNotifier) SendPasswordReset(ctx context.Context, r PasswordReset) error {
	_, err := n.sender.SendEmail(ctx, Email{
		To:      r.Email,
		Subject: "Password reset",
		Body: fmt.Sprintf("Reset your password using this link (expires in %d minutes):\n\n%s\n",
			int(r.ExpiresIn.Minutes()), r.ResetURL),
	})
	if err != nil {
		return fmt.Errorf("send password reset: %w", err)
	}
	return nil
}
