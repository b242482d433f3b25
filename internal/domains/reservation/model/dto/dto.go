package dto

import (
	"leadtime/internal/domains/reservation/model"
	"leadtime/shared"
	"leadtime/shared/constant"
	gDto "leadtime/shared/dto"
	gModel "leadtime/shared/model"
	"leadtime/shared/timezone"
	"time"

	"github.com/google/uuid"
)

// CommitRequest carries a fully validated booking attempt into the committer.
// The guard has already run; the committer only decides whether the slot is
// offered and whether it is still free.
type CommitRequest struct {
	Date      string
	StartTime string
	LeadRef   string
	Name      string
	Email     string
	Phone     string
	Company   string
	Notes     string
}

func (c *CommitRequest) ToModel(day time.Time, durationMinutes int, tz, actor string) model.Reservation {
	return model.Reservation{
		ID:              uuid.NewString(),
		BookingDate:     day,
		StartTime:       c.StartTime,
		DurationMinutes: durationMinutes,
		Status:          constant.ReservationStatusScheduled,
		LeadRef:         c.LeadRef,
		Timezone:        tz,
		GuestName:       c.Name,
		GuestEmail:      c.Email,
		GuestPhone:      c.Phone,
		Company:         c.Company,
		Notes:           c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  actor,
			ModifiedBy: actor,
		},
	}
}

type CommitResponse struct {
	ReservationID   string `json:"reservation_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Timezone        string `json:"timezone"`
	Status          string `json:"status"`
	CancelToken     string `json:"cancel_token"`
}

type CancelRequest struct {
	CancelToken string `json:"cancel_token" validate:"required"`
}

type ReservationResponse struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
	LeadRef         string `json:"lead_ref,omitempty"`
	Timezone        string `json:"timezone"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone,omitempty"`
	Company         string `json:"company,omitempty"`
	Notes           string `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.Date = timezone.Format(model.BookingDate, constant.DayFormat)
	r.StartTime = model.StartTime
	r.DurationMinutes = model.DurationMinutes
	r.Status = model.Status
	r.LeadRef = model.LeadRef
	r.Timezone = model.Timezone
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.Company = model.Company
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
