package housekeeping_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"leadtime/config"
	"leadtime/infras/otel/mocks"
	resServiceMocks "leadtime/internal/domains/reservation/service/mocks"
	subServiceMocks "leadtime/internal/domains/submission/service/mocks"
	"leadtime/internal/housekeeping"
)

func workerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Housekeeping.IntervalMinutes = 30

	return cfg
}

func TestWorker_Run(t *testing.T) {
	t.Run("sweeps once on startup and stops on cancel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockReservations := resServiceMocks.NewMockReservation(ctrl)
		mockSubmissions := subServiceMocks.NewMockSubmission(ctrl)
		mockOtel := mocks.NewOtel()

		ctx, cancel := context.WithCancel(context.Background())
		swept := make(chan struct{})

		mockReservations.EXPECT().
			CompleteElapsed(gomock.Any()).
			Return(int64(2), nil)

		mockSubmissions.EXPECT().
			Purge(gomock.Any()).
			DoAndReturn(func(context.Context) (int64, error) {
				close(swept)

				return int64(5), nil
			})

		worker := housekeeping.NewWorker(mockReservations, mockSubmissions, workerConfig(), mockOtel)

		done := make(chan struct{})

		go func() {
			worker.Run(ctx)
			close(done)
		}()

		select {
		case <-swept:
		case <-time.After(time.Second):
			t.Fatal("expected an immediate sweep on startup")
		}

		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("expected the worker to stop once cancelled")
		}
	})

	t.Run("a failing sweep does not stop the worker", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockReservations := resServiceMocks.NewMockReservation(ctrl)
		mockSubmissions := subServiceMocks.NewMockSubmission(ctrl)
		mockOtel := mocks.NewOtel()

		ctx, cancel := context.WithCancel(context.Background())
		swept := make(chan struct{})

		mockReservations.EXPECT().
			CompleteElapsed(gomock.Any()).
			Return(int64(0), errors.New("database error"))

		mockSubmissions.EXPECT().
			Purge(gomock.Any()).
			DoAndReturn(func(context.Context) (int64, error) {
				close(swept)

				return int64(0), errors.New("database error")
			})

		worker := housekeeping.NewWorker(mockReservations, mockSubmissions, workerConfig(), mockOtel)

		done := make(chan struct{})

		go func() {
			worker.Run(ctx)
			close(done)
		}()

		select {
		case <-swept:
		case <-time.After(time.Second):
			t.Fatal("expected the sweep to run despite errors")
		}

		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("expected the worker to stop once cancelled")
		}
	})
}
