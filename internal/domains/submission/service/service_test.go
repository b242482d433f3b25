package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"leadtime/config"
	"leadtime/infras/otel/mocks"
	subMocks "leadtime/internal/domains/submission/mocks"
	"leadtime/internal/domains/submission/model"
	"leadtime/internal/domains/submission/model/dto"
	"leadtime/internal/domains/submission/service"
	"leadtime/shared/constant"
	"leadtime/shared/failure"
)

type guardedPayload struct {
	Email string `validate:"required,email"`
}

func guardConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Booking.Guard.MaxSubmissions = 3
	cfg.Booking.Guard.WindowMinutes = 60
	cfg.Housekeeping.SubmissionRetentionDays = 90

	return cfg
}

func TestSubmissionService_Admit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := subMocks.NewMockSubmission(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, guardConfig(), mockOtel)

	baseRequest := dto.AdmitRequest{
		FormType:       constant.FormTypeBooking,
		IdentifierHash: "hash-1",
	}

	tests := []struct {
		name          string
		req           dto.AdmitRequest
		setupMock     func()
		wantErr       bool
		wantCode      int
		wantDecision  dto.Decision
		minRetryAfter int64
	}{
		{
			name: "admitted within window",
			req:  baseRequest,
			setupMock: func() {
				mockRepo.EXPECT().
					IncrementWindow(gomock.Any(), constant.FormTypeBooking, "hash-1", gomock.Any(), gomock.Any()).
					Return(model.SubmissionWindow{Count: 2, WindowStart: time.Now()}, nil)
			},
			wantErr: false,
		},
		{
			name: "honeypot filled skips the window entirely",
			req: dto.AdmitRequest{
				FormType:       constant.FormTypeBooking,
				IdentifierHash: "hash-1",
				HoneypotValue:  "https://spam.example",
			},
			setupMock:    func() {},
			wantErr:      true,
			wantCode:     http.StatusBadRequest,
			wantDecision: dto.Decision{HoneypotTriggered: true, Suspicious: true},
		},
		{
			name: "invalid payload rejected before rate bookkeeping",
			req: dto.AdmitRequest{
				FormType:       constant.FormTypeBooking,
				IdentifierHash: "hash-1",
				Payload:        guardedPayload{Email: "not-an-email"},
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "over the limit",
			req:  baseRequest,
			setupMock: func() {
				mockRepo.EXPECT().
					IncrementWindow(gomock.Any(), constant.FormTypeBooking, "hash-1", gomock.Any(), gomock.Any()).
					Return(model.SubmissionWindow{Count: 4, WindowStart: time.Now()}, nil)
			},
			wantErr:       true,
			wantCode:      http.StatusTooManyRequests,
			wantDecision:  dto.Decision{Suspicious: true},
			minRetryAfter: 1,
		},
		{
			name: "lapsed window restarts the count",
			req:  baseRequest,
			setupMock: func() {
				mockRepo.EXPECT().
					IncrementWindow(gomock.Any(), constant.FormTypeBooking, "hash-1", gomock.Any(), gomock.Any()).
					Return(model.SubmissionWindow{Count: 1, WindowStart: time.Now()}, nil)
			},
			wantErr: false,
		},
		{
			name: "store failure closes the gate",
			req:  baseRequest,
			setupMock: func() {
				mockRepo.EXPECT().
					IncrementWindow(gomock.Any(), constant.FormTypeBooking, "hash-1", gomock.Any(), gomock.Any()).
					Return(model.SubmissionWindow{}, errors.New("database error"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			decision, err := svc.Admit(context.Background(), tt.req)

			assert.Equal(t, tt.wantDecision, decision)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				if tt.minRetryAfter > 0 {
					assert.GreaterOrEqual(t, failure.GetRetryAfter(err), tt.minRetryAfter)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmissionService_Record(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := subMocks.NewMockSubmission(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, guardConfig(), mockOtel)

	ref := "res-1"
	entry := dto.RecordEntry{
		FormType:       constant.FormTypeBooking,
		IdentifierHash: "hash-1",
		RecordRef:      &ref,
	}

	t.Run("persists the attempt", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, record model.SubmissionRecord) error {
				assert.NotEmpty(t, record.ID)
				assert.Equal(t, constant.FormTypeBooking, record.FormType)
				assert.Equal(t, &ref, record.RecordRef)

				return nil
			})

		svc.Record(context.Background(), entry)
	})

	t.Run("swallows write failures", func(t *testing.T) {
		mockRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(errors.New("database error"))

		svc.Record(context.Background(), entry)
	})
}

func TestSubmissionService_Purge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := subMocks.NewMockSubmission(ctrl)
	mockOtel := mocks.NewOtel()

	svc := service.New(mockRepo, guardConfig(), mockOtel)

	t.Run("drops aged logs and lapsed windows", func(t *testing.T) {
		mockRepo.EXPECT().
			PurgeOlderThan(gomock.Any(), gomock.Any()).
			Return(int64(12), nil)

		mockRepo.EXPECT().
			DeleteExpiredWindows(gomock.Any(), gomock.Any()).
			Return(nil)

		purged, err := svc.Purge(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(12), purged)
	})

	t.Run("log purge failure", func(t *testing.T) {
		mockRepo.EXPECT().
			PurgeOlderThan(gomock.Any(), gomock.Any()).
			Return(int64(0), errors.New("database error"))

		_, err := svc.Purge(context.Background())

		assert.Error(t, err)
	})
}
