package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"leadtime/infras/otel/mocks"
	"leadtime/internal/domains/booking/model/dto"
	"leadtime/internal/domains/booking/service"
	resDto "leadtime/internal/domains/reservation/model/dto"
	resServiceMocks "leadtime/internal/domains/reservation/service/mocks"
	subDto "leadtime/internal/domains/submission/model/dto"
	subServiceMocks "leadtime/internal/domains/submission/service/mocks"
	"leadtime/shared/constant"
	"leadtime/shared/failure"
)

func bookingRequest() dto.SubmitBookingRequest {
	return dto.SubmitBookingRequest{
		Date:      "2031-06-02",
		StartTime: "10:00",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
	}
}

func TestBookingService_Submit(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(guard *subServiceMocks.MockSubmission, reservations *resServiceMocks.MockReservation, recorded chan subDto.RecordEntry)
		wantErr       bool
		wantCode      int
		checkRecorded func(t *testing.T, entry subDto.RecordEntry)
	}{
		{
			name: "admitted and committed",
			setupMock: func(guard *subServiceMocks.MockSubmission, reservations *resServiceMocks.MockReservation, recorded chan subDto.RecordEntry) {
				guard.EXPECT().
					Admit(gomock.Any(), gomock.Any()).
					Return(subDto.Decision{}, nil)

				reservations.EXPECT().
					Commit(gomock.Any(), gomock.Any()).
					Return(resDto.CommitResponse{ReservationID: "res-1"}, nil)

				guard.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, entry subDto.RecordEntry) {
						recorded <- entry
					}).
					Times(1)
			},
			wantErr: false,
			checkRecorded: func(t *testing.T, entry subDto.RecordEntry) {
				assert.Equal(t, constant.FormTypeBooking, entry.FormType)

				if assert.NotNil(t, entry.RecordRef) {
					assert.Equal(t, "res-1", *entry.RecordRef)
				}
			},
		},
		{
			name: "guard rejects the attempt",
			setupMock: func(guard *subServiceMocks.MockSubmission, reservations *resServiceMocks.MockReservation, recorded chan subDto.RecordEntry) {
				guard.EXPECT().
					Admit(gomock.Any(), gomock.Any()).
					Return(
						subDto.Decision{HoneypotTriggered: true, Suspicious: true},
						failure.BadRequestFromString("unable to process submission"),
					)

				guard.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, entry subDto.RecordEntry) {
						recorded <- entry
					}).
					Times(1)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
			checkRecorded: func(t *testing.T, entry subDto.RecordEntry) {
				assert.True(t, entry.HoneypotTriggered)
				assert.True(t, entry.Suspicious)
				assert.Nil(t, entry.RecordRef)
			},
		},
		{
			name: "slot claim loses the race",
			setupMock: func(guard *subServiceMocks.MockSubmission, reservations *resServiceMocks.MockReservation, recorded chan subDto.RecordEntry) {
				guard.EXPECT().
					Admit(gomock.Any(), gomock.Any()).
					Return(subDto.Decision{}, nil)

				reservations.EXPECT().
					Commit(gomock.Any(), gomock.Any()).
					Return(resDto.CommitResponse{}, failure.Conflict("slot has already been booked"))

				guard.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, entry subDto.RecordEntry) {
						recorded <- entry
					}).
					Times(1)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
			checkRecorded: func(t *testing.T, entry subDto.RecordEntry) {
				assert.Nil(t, entry.RecordRef)
			},
		},
		{
			name: "repository error",
			setupMock: func(guard *subServiceMocks.MockSubmission, reservations *resServiceMocks.MockReservation, recorded chan subDto.RecordEntry) {
				guard.EXPECT().
					Admit(gomock.Any(), gomock.Any()).
					Return(subDto.Decision{}, nil)

				reservations.EXPECT().
					Commit(gomock.Any(), gomock.Any()).
					Return(resDto.CommitResponse{}, errors.New("database error"))

				guard.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, entry subDto.RecordEntry) {
						recorded <- entry
					}).
					Times(1)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockGuard := subServiceMocks.NewMockSubmission(ctrl)
			mockReservations := resServiceMocks.NewMockReservation(ctrl)
			mockOtel := mocks.NewOtel()

			recorded := make(chan subDto.RecordEntry, 1)
			tt.setupMock(mockGuard, mockReservations, recorded)

			svc := service.New(mockGuard, mockReservations, mockOtel)

			res, err := svc.Submit(context.Background(), bookingRequest(), "203.0.113.7")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "res-1", res.ReservationID)
			}

			// every attempt leaves exactly one audit record, written off the
			// request path
			select {
			case entry := <-recorded:
				if tt.checkRecorded != nil {
					tt.checkRecorded(t, entry)
				}
			case <-time.After(time.Second):
				t.Fatal("expected a submission record to be written")
			}
		})
	}
}
