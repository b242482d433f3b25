package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"leadtime/config"
	"leadtime/infras/kafka"
	kafkaMocks "leadtime/infras/kafka/mocks"
	"leadtime/internal/events"
)

func dispatcherConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Kafka.Topics.BookingConfirmed = "booking.confirmed"
	cfg.Kafka.Topics.BookingCancelled = "booking.cancelled"

	return cfg
}

func TestDispatcher_BookingConfirmed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := kafkaMocks.NewMockClient(ctrl)

	dispatcher := events.NewDispatcher(mockClient, dispatcherConfig())

	t.Run("publishes to the confirmed topic keyed by reservation", func(t *testing.T) {
		event := events.BookingEvent{
			ReservationID: "res-1",
			BookingDate:   "2031-06-02",
			StartTime:     "10:00",
			GuestEmail:    "ada@example.com",
		}

		mockClient.EXPECT().
			SendMessages(gomock.Any(), "booking.confirmed", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				if assert.Len(t, messages, 1) {
					assert.Equal(t, "res-1", messages[0].Key)

					payload, ok := messages[0].Value.(events.BookingEvent)
					if assert.True(t, ok) {
						assert.False(t, payload.OccurredAt.IsZero())
					}
				}

				return nil
			})

		err := dispatcher.BookingConfirmed(context.Background(), event)

		assert.NoError(t, err)
	})

	t.Run("keeps an explicit occurrence time", func(t *testing.T) {
		occurredAt := time.Date(2031, 6, 2, 10, 0, 0, 0, time.UTC)

		mockClient.EXPECT().
			SendMessages(gomock.Any(), "booking.confirmed", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				payload, ok := messages[0].Value.(events.BookingEvent)
				if assert.True(t, ok) {
					assert.Equal(t, occurredAt, payload.OccurredAt)
				}

				return nil
			})

		err := dispatcher.BookingConfirmed(context.Background(), events.BookingEvent{
			ReservationID: "res-1",
			OccurredAt:    occurredAt,
		})

		assert.NoError(t, err)
	})

	t.Run("broker error", func(t *testing.T) {
		mockClient.EXPECT().
			SendMessages(gomock.Any(), "booking.confirmed", gomock.Any()).
			Return(errors.New("broker unavailable"))

		err := dispatcher.BookingConfirmed(context.Background(), events.BookingEvent{ReservationID: "res-1"})

		assert.Error(t, err)
	})
}

func TestDispatcher_BookingCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := kafkaMocks.NewMockClient(ctrl)

	dispatcher := events.NewDispatcher(mockClient, dispatcherConfig())

	mockClient.EXPECT().
		SendMessages(gomock.Any(), "booking.cancelled", gomock.Any()).
		Return(nil)

	err := dispatcher.BookingCancelled(context.Background(), events.BookingEvent{ReservationID: "res-1"})

	assert.NoError(t, err)
}
