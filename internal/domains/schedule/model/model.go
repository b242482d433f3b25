package model

import (
	"leadtime/shared/model"
)

const (
	TableName  = "availability_rules"
	EntityName = "availability_rule"

	FieldID              = "id"
	FieldDayOfWeek       = "day_of_week"
	FieldStartTime       = "start_time"
	FieldDurationMinutes = "duration_minutes"
	FieldActive          = "active"
)

// AvailabilityRule is one entry of the recurring weekly template: on the given
// weekday a slot opens at StartTime for DurationMinutes. Rules are deactivated
// rather than deleted so historical reservations stay interpretable.
type AvailabilityRule struct {
	ID              string `db:"id"`
	DayOfWeek       int    `db:"day_of_week"`
	StartTime       string `db:"start_time"`
	DurationMinutes int    `db:"duration_minutes"`
	Active          bool   `db:"active"`
	model.Metadata
}
