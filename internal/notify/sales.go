package notify

import (
	"context"
	"fmt"

	"github.com/ninjas3242/truck-bot/internal/booking"
	"github.com/ninjas3242/truck-bot/pkg/logging"
)

// SalesNotifier emails the sales inbox when a showroom visit is booked.
// It satisfies the conversation engine's notifier interface.
type SalesNotifier struct {
	sender  EmailSender
	salesTo string
	logger  *logging.Logger
}

// NewSalesNotifier returns nil when the sender or destination is missing,
// so booking notifications are cleanly optional.
func NewSalesNotifier(sender EmailSender, salesTo string, logger *logging.Logger) *SalesNotifier {
	if sender == nil || salesTo == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SalesNotifier{sender: sender, salesTo: salesTo, logger: logger}
}

func (n *SalesNotifier) NotifyBooking(ctx context.Context, res booking.Resolution) error {
	when := res.DateTimeText
	if !res.Start.IsZero() {
		when = res.Start.Format("Monday, 2 January 2006 at 15:04 MST")
	}

	body := fmt.Sprintf(
		"New showroom appointment.\n\nTruck type: %s\nWhen: %s\nCustomer email: %s\n",
		res.TruckType, when, res.Email)

	err := n.sender.Send(ctx, EmailMessage{
		To:      n.salesTo,
		ToName:  "Sales Team",
		Subject: fmt.Sprintf("Showroom visit booked: %s", res.TruckType),
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("notify: booking alert failed: %w", err)
	}
	return nil
}
