package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log instead of delivering them.
// It is the development default.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendOrderConfirmation(_ context.Context, c OrderConfirmation) error {
	n.log.Info("order confirmation",
		zap.Uint("order_id", c.OrderID),
		zap.String("to", c.BuyerEmail),
		zap.String("total", c.Total.StringFixed(2)),
		zap.String("invoice", c.Invoice()),
	)
	return nil
}

func (n *LogNotifier) SendPasswordReset(_ context.Context, r PasswordReset) error {
	n.log.Info("password reset",
		zap.String("to", r.Email),
		zap.String("reset_url", r.ResetURL),
	)
	return nil
}
