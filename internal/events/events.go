package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"fmt"
	"leadtime/config"
	"leadtime/infras/kafka"
	"leadtime/shared/timezone"
	"time"
)

// BookingEvent is the payload published when a reservation changes state. The
// notification consumers downstream render it into confirmation or
// cancellation messages for the guest.
type BookingEvent struct {
	ReservationID   string    `json:"reservation_id"`
	BookingDate     string    `json:"booking_date"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Timezone        string    `json:"timezone"`
	GuestName       string    `json:"guest_name"`
	GuestEmail      string    `json:"guest_email"`
	CancelToken     string    `json:"cancel_token,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Dispatcher publishes booking lifecycle events. Publishing is best effort;
// callers fire it off the request path and a lost event never fails a booking.
type Dispatcher interface {
	BookingConfirmed(ctx context.Context, event BookingEvent) error
	BookingCancelled(ctx context.Context, event BookingEvent) error
}

type dispatcherImpl struct {
	client kafka.Client
	cfg    *config.Config
}

func NewDispatcher(client kafka.Client, cfg *config.Config) Dispatcher {
	return &dispatcherImpl{
		client: client,
		cfg:    cfg,
	}
}

func (d *dispatcherImpl) BookingConfirmed(ctx context.Context, event BookingEvent) error {
	return d.publish(ctx, d.cfg.Kafka.Topics.BookingConfirmed, event)
}

func (d *dispatcherImpl) BookingCancelled(ctx context.Context, event BookingEvent) error {
	return d.publish(ctx, d.cfg.Kafka.Topics.BookingCancelled, event)
}

func (d *dispatcherImpl) publish(ctx context.Context, topic string, event BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = timezone.Now()
	}

	err := d.client.SendMessages(ctx, topic, kafka.Message{
		Key:   event.ReservationID,
		Value: event,
	})
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	return nil
}
