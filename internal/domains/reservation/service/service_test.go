package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"leadtime/config"
	"leadtime/infras/jwt"
	jwtMocks "leadtime/infras/jwt/mocks"
	"leadtime/infras/otel/mocks"
	resMocks "leadtime/internal/domains/reservation/mocks"
	"leadtime/internal/domains/reservation/model"
	"leadtime/internal/domains/reservation/model/dto"
	"leadtime/internal/domains/reservation/service"
	scheduleMocks "leadtime/internal/domains/schedule/mocks"
	schedModel "leadtime/internal/domains/schedule/model"
	eventMocks "leadtime/internal/events/mocks"
	"leadtime/shared/constant"
	"leadtime/shared/failure"
	"leadtime/shared/timezone"
)

func commitRequest(daysAhead int) dto.CommitRequest {
	return dto.CommitRequest{
		Date:      timezone.Now().AddDate(0, 0, daysAhead).Format(constant.DayFormat),
		StartTime: "10:00",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
	}
}

func TestReservationService_Commit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := resMocks.NewMockReservation(ctrl)
	mockRuleRepo := scheduleMocks.NewMockRule(ctrl)
	mockTokens := jwtMocks.NewMockTokens(ctrl)
	mockDispatcher := eventMocks.NewMockDispatcher(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	mockDispatcher.EXPECT().BookingConfirmed(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockRuleRepo, mockTokens, mockDispatcher, cfg, mockOtel)

	matchedRule := schedModel.AvailabilityRule{
		ID:              "rule-1",
		StartTime:       "10:00",
		DurationMinutes: 45,
		Active:          true,
	}

	tests := []struct {
		name      string
		req       dto.CommitRequest
		setupMock func()
		wantErr   bool
		wantCode  int
		check     func(t *testing.T, res dto.CommitResponse)
	}{
		{
			name: "successful commit",
			req:  commitRequest(7),
			setupMock: func() {
				mockRuleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(matchedRule, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockTokens.EXPECT().
					GenerateCancelToken(gomock.Any()).
					Return("signed-token", nil)
			},
			wantErr: false,
			check: func(t *testing.T, res dto.CommitResponse) {
				assert.NotEmpty(t, res.ReservationID)
				assert.Equal(t, constant.ReservationStatusScheduled, res.Status)
				assert.Equal(t, 45, res.DurationMinutes)
				assert.Equal(t, "signed-token", res.CancelToken)
			},
		},
		{
			name:      "malformed date",
			req:       dto.CommitRequest{Date: "not-a-date", StartTime: "10:00"},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "past date",
			req:       dto.CommitRequest{Date: "2020-01-01", StartTime: "10:00"},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "slot not offered",
			req:  commitRequest(7),
			setupMock: func() {
				mockRuleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(schedModel.AvailabilityRule{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "slot already booked",
			req:  commitRequest(7),
			setupMock: func() {
				mockRuleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(matchedRule, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			req:  commitRequest(7),
			setupMock: func() {
				mockRuleRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(matchedRule, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Commit(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)

				if tt.check != nil {
					tt.check(t, res)
				}
			}
		})
	}

	// let fire-and-forget event publishes drain before the controller checks
	time.Sleep(10 * time.Millisecond)
}

func TestReservationService_CancelByToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := resMocks.NewMockReservation(ctrl)
	mockRuleRepo := scheduleMocks.NewMockRule(ctrl)
	mockTokens := jwtMocks.NewMockTokens(ctrl)
	mockDispatcher := eventMocks.NewMockDispatcher(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	mockDispatcher.EXPECT().BookingCancelled(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockRuleRepo, mockTokens, mockDispatcher, cfg, mockOtel)

	scheduled := model.Reservation{
		ID:        "res-1",
		StartTime: "10:00",
		Status:    constant.ReservationStatusScheduled,
	}

	tests := []struct {
		name      string
		token     string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name:  "successful cancellation",
			token: "valid-token",
			setupMock: func() {
				mockTokens.EXPECT().
					ValidateCancelToken("valid-token").
					Return(&jwt.Claims{ReservationID: "res-1"}, nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(scheduled, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name:  "invalid token",
			token: "garbage",
			setupMock: func() {
				mockTokens.EXPECT().
					ValidateCancelToken("garbage").
					Return(nil, jwt.ErrInvalidToken)
			},
			wantErr:  true,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:  "reservation not found",
			token: "valid-token",
			setupMock: func() {
				mockTokens.EXPECT().
					ValidateCancelToken("valid-token").
					Return(&jwt.Claims{ReservationID: "missing"}, nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name:  "already cancelled",
			token: "valid-token",
			setupMock: func() {
				mockTokens.EXPECT().
					ValidateCancelToken("valid-token").
					Return(&jwt.Claims{ReservationID: "res-1"}, nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Reservation{
						ID:     "res-1",
						Status: constant.ReservationStatusCancelled,
					}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.CancelByToken(context.Background(), tt.token)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}

	time.Sleep(10 * time.Millisecond)
}

func TestReservationService_CompleteElapsed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := resMocks.NewMockReservation(ctrl)
	mockRuleRepo := scheduleMocks.NewMockRule(ctrl)
	mockTokens := jwtMocks.NewMockTokens(ctrl)
	mockDispatcher := eventMocks.NewMockDispatcher(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockRuleRepo, mockTokens, mockDispatcher, cfg, mockOtel)

	t.Run("reports completed count", func(t *testing.T) {
		mockRepo.EXPECT().
			CompleteElapsed(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, before time.Time) (int64, error) {
				today := timezone.StartOfDay(timezone.Now())
				assert.True(t, before.Equal(today))

				return 3, nil
			})

		completed, err := svc.CompleteElapsed(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(3), completed)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().
			CompleteElapsed(gomock.Any(), gomock.Any()).
			Return(int64(0), errors.New("database error"))

		_, err := svc.CompleteElapsed(context.Background())

		assert.Error(t, err)
	})
}
