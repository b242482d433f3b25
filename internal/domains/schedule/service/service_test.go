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
	resMocks "leadtime/internal/domains/reservation/mocks"
	resModel "leadtime/internal/domains/reservation/model"
	scheduleMocks "leadtime/internal/domains/schedule/mocks"
	"leadtime/internal/domains/schedule/model"
	"leadtime/internal/domains/schedule/model/dto"
	"leadtime/internal/domains/schedule/service"
	cacheMocks "leadtime/shared/cache/mocks"
	"leadtime/shared/constant"
	"leadtime/shared/failure"
	gModel "leadtime/shared/model"
	"leadtime/shared/timezone"
)

var errCacheMiss = errors.New("cache miss")

func futureDate(daysAhead int) (string, int) {
	day := timezone.Now().AddDate(0, 0, daysAhead)

	return day.Format(constant.DayFormat), int(day.Weekday())
}

func ruleFixture(id, startTime string, durationMinutes, weekday int) model.AvailabilityRule {
	return model.AvailabilityRule{
		ID:              id,
		DayOfWeek:       weekday,
		StartTime:       startTime,
		DurationMinutes: durationMinutes,
		Active:          true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  constant.ActorStaff,
			ModifiedBy: constant.ActorStaff,
		},
	}
}

func TestScheduleService_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockRule(ctrl)
	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockResRepo, cfg, mockCache, mockOtel)

	date, weekday := futureDate(7)

	tests := []struct {
		name      string
		date      string
		tz        string
		setupMock func()
		wantErr   bool
		wantCode  int
		check     func(t *testing.T, res dto.ResolveResponse)
	}{
		{
			name:      "unknown timezone",
			date:      date,
			tz:        "Atlantis/Nowhere",
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "malformed date",
			date:      "31-12-2026",
			tz:        "UTC",
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "past date",
			date:      "2020-01-01",
			tz:        "UTC",
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "weekday without rules yields empty slots",
			date: date,
			tz:   "UTC",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errCacheMiss)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.AvailabilityRule{}, nil)
			},
			wantErr: false,
			check: func(t *testing.T, res dto.ResolveResponse) {
				assert.Empty(t, res.Slots)
				assert.Equal(t, date, res.Date)
			},
		},
		{
			name: "booked slot marked unavailable, slots sorted",
			date: date,
			tz:   "UTC",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errCacheMiss)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.AvailabilityRule{
						ruleFixture("rule-2", "14:00", 60, weekday),
						ruleFixture("rule-1", "09:00", 60, weekday),
					}, nil)

				mockResRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]resModel.Reservation{
						{
							ID:        "res-1",
							StartTime: "14:00",
							Status:    constant.ReservationStatusScheduled,
						},
					}, nil)
			},
			wantErr: false,
			check: func(t *testing.T, res dto.ResolveResponse) {
				assert.Len(t, res.Slots, 2)
				assert.Equal(t, "09:00", res.Slots[0].StartTime)
				assert.True(t, res.Slots[0].Available)
				assert.Equal(t, "14:00", res.Slots[1].StartTime)
				assert.False(t, res.Slots[1].Available)
			},
		},
		{
			name: "repository error",
			date: date,
			tz:   "UTC",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errCacheMiss)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Resolve(context.Background(), tt.date, tt.tz)

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

	// let fire-and-forget cache writes drain before the controller checks
	time.Sleep(10 * time.Millisecond)
}

func TestScheduleService_ResolveIsRepeatable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockRule(ctrl)
	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)

	svc := service.New(mockRepo, mockResRepo, cfg, mockCache, mockOtel)

	date, weekday := futureDate(3)

	rules := []model.AvailabilityRule{ruleFixture("rule-1", "10:00", 30, weekday)}

	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(rules, nil).Times(2)
	mockResRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]resModel.Reservation{}, nil).Times(2)

	first, err := svc.Resolve(context.Background(), date, "UTC")
	assert.NoError(t, err)

	second, err := svc.Resolve(context.Background(), date, "UTC")
	assert.NoError(t, err)

	assert.Equal(t, first, second)

	time.Sleep(10 * time.Millisecond)
}

func TestScheduleService_CreateRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockRule(ctrl)
	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockResRepo, cfg, mockCache, mockOtel)

	weekday := 2
	active := true

	tests := []struct {
		name      string
		req       dto.CreateRuleRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			req: dto.CreateRuleRequest{
				DayOfWeek:       &weekday,
				StartTime:       "09:00",
				DurationMinutes: 60,
				Active:          &active,
			},
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errCacheMiss)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.AvailabilityRule{}, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "overlapping rule rejected",
			req: dto.CreateRuleRequest{
				DayOfWeek:       &weekday,
				StartTime:       "09:30",
				DurationMinutes: 60,
				Active:          &active,
			},
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errCacheMiss)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.AvailabilityRule{
						ruleFixture("rule-1", "09:00", 60, weekday),
					}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "adjacent rule allowed",
			req: dto.CreateRuleRequest{
				DayOfWeek:       &weekday,
				StartTime:       "10:00",
				DurationMinutes: 60,
				Active:          &active,
			},
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errCacheMiss)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.AvailabilityRule{
						ruleFixture("rule-1", "09:00", 60, weekday),
					}, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "repository error",
			req: dto.CreateRuleRequest{
				DayOfWeek:       &weekday,
				StartTime:       "09:00",
				DurationMinutes: 60,
				Active:          &active,
			},
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errCacheMiss)

				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.AvailabilityRule{}, nil)

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

			ctx := context.WithValue(context.Background(), constant.ContextKeyActor, constant.ActorStaff)
			err := svc.CreateRule(ctx, tt.req)

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

func TestScheduleService_DeactivateRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := scheduleMocks.NewMockRule(ctrl)
	mockResRepo := resMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, mockResRepo, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful deactivation",
			id:   "rule-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "rule not found",
			id:   "missing",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyActor, constant.ActorStaff)
			err := svc.DeactivateRule(ctx, tt.id)

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

	// cache invalidation runs off the request path
	time.Sleep(10 * time.Millisecond)
}
