package dto

import (
	resDto "leadtime/internal/domains/reservation/model/dto"
)

// SubmitBookingRequest is the public booking form payload. Website is a trap
// field rendered invisibly on the form; humans leave it blank.
type SubmitBookingRequest struct {
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	Name      string `json:"name"       validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email,max=100"`
	Phone     string `json:"phone"      validate:"omitempty,max=20"`
	Company   string `json:"company"    validate:"omitempty,max=100"`
	Notes     string `json:"notes"      validate:"omitempty,max=2000"`
	LeadRef   string `json:"lead_ref"   validate:"omitempty,max=100"`
	Website   string `json:"website"`
}

func (s *SubmitBookingRequest) ToCommitRequest() resDto.CommitRequest {
	return resDto.CommitRequest{
		Date:      s.Date,
		StartTime: s.StartTime,
		LeadRef:   s.LeadRef,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Company:   s.Company,
		Notes:     s.Notes,
	}
}
