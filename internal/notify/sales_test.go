package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninjas3242/truck-bot/internal/booking"
)

type fakeSender struct {
	sent []EmailMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestNotifyBooking(t *testing.T) {
	sender := &fakeSender{}
	n := NewSalesNotifier(sender, "sales@stephex.be", nil)
	require.NotNil(t, n)

	res := booking.Resolution{
		Status:    booking.StatusComplete,
		TruckType: "2-horse",
		Email:     "jane@example.com",
		Start:     time.Date(2025, time.June, 16, 14, 0, 0, 0, time.UTC),
	}
	require.NoError(t, n.NotifyBooking(context.Background(), res))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "sales@stephex.be", msg.To)
	assert.Contains(t, msg.Subject, "2-horse")
	assert.Contains(t, msg.Body, "jane@example.com")
	assert.Contains(t, msg.Body, "Monday, 16 June 2025")
}

func TestNotifyBookingSendFailure(t *testing.T) {
	n := NewSalesNotifier(&fakeSender{err: errors.New("boom")}, "sales@stephex.be", nil)
	err := n.NotifyBooking(context.Background(), booking.Resolution{TruckType: "6-horse"})
	assert.Error(t, err)
}

func TestNewSalesNotifierOptional(t *testing.T) {
	assert.Nil(t, NewSalesNotifier(nil, "sales@stephex.be", nil))
	assert.Nil(t, NewSalesNotifier(&fakeSender{}, "", nil))
}
