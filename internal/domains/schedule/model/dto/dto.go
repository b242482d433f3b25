package dto

import (
	"leadtime/internal/domains/schedule/model"
	"leadtime/shared"
	gDto "leadtime/shared/dto"
	gModel "leadtime/shared/model"
	"leadtime/shared/timezone"

	"github.com/google/uuid"
)

type CreateRuleRequest struct {
	DayOfWeek       *int   `json:"day_of_week"      validate:"required,gte=0,lte=6"`
	StartTime       string `json:"start_time"       validate:"required,datetime=15:04"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gte=5,lte=480"`
	Active          *bool  `json:"active"           validate:"omitempty"`
}

func (c *CreateRuleRequest) ToModel(actor string) model.AvailabilityRule {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.AvailabilityRule{
		ID:              uuid.NewString(),
		DayOfWeek:       *c.DayOfWeek,
		StartTime:       c.StartTime,
		DurationMinutes: c.DurationMinutes,
		Active:          active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}
}

type UpdateRuleRequest struct {
	StartTime       string `db:"start_time"       json:"start_time"       validate:"omitempty,datetime=15:04"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes" validate:"omitempty,gte=5,lte=480"`
	Active          *bool  `db:"active"           json:"active"           validate:"omitempty"`
}

type RuleResponse struct {
	ID              string `json:"id"`
	DayOfWeek       int    `json:"day_of_week"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Active          bool   `json:"active"`
	gDto.Metadata
}

func (r *RuleResponse) FromModel(model model.AvailabilityRule) {
	r.ID = model.ID
	r.DayOfWeek = model.DayOfWeek
	r.StartTime = model.StartTime
	r.DurationMinutes = model.DurationMinutes
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRulesResponse struct {
	Rules     []RuleResponse `json:"rules"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRulesResponse) FromModels(models []model.AvailabilityRule, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rules = make([]RuleResponse, len(models))
	for i, mod := range models {
		r.Rules[i].FromModel(mod)
	}
}

// SlotView is one bookable opening on a concrete calendar date, derived fresh
// from the weekly template and current reservations on every resolve.
type SlotView struct {
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Available       bool   `json:"available"`
}

type ResolveResponse struct {
	Date     string     `json:"date"`
	Timezone string     `json:"timezone"`
	Slots    []SlotView `json:"slots"`
}
