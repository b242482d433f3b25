package model

import (
	"leadtime/shared/model"
	"time"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID              = "id"
	FieldBookingDate     = "booking_date"
	FieldStartTime       = "start_time"
	FieldDurationMinutes = "duration_minutes"
	FieldStatus          = "status"
	FieldLeadRef         = "lead_ref"
	FieldTimezone        = "timezone"
	FieldGuestName       = "guest_name"
	FieldGuestEmail      = "guest_email"
	FieldGuestPhone      = "guest_phone"
	FieldCompany         = "company"
	FieldNotes           = "notes"
)

// Reservation binds one calendar slot to a visitor. At most one reservation
// per (booking_date, start_time) may be in status scheduled at any instant;
// the store enforces this with a partial unique index.
type Reservation struct {
	ID              string    `db:"id"`
	BookingDate     time.Time `db:"booking_date"`
	StartTime       string    `db:"start_time"`
	DurationMinutes int       `db:"duration_minutes"`
	Status          string    `db:"status"`
	LeadRef         string    `db:"lead_ref"`
	Timezone        string    `db:"timezone"`
	GuestName       string    `db:"guest_name"`
	GuestEmail      string    `db:"guest_email"`
	GuestPhone      string    `db:"guest_phone"`
	Company         string    `db:"company"`
	Notes           string    `db:"notes"`
	model.Metadata
}
