package dto

import (
	"leadtime/internal/domains/submission/model"
	"leadtime/shared"
	"time"

	"github.com/google/uuid"
)

// AdmitRequest is one submission attempt presented to the guard. Payload holds
// the form-specific request struct and is validated with its own tags.
type AdmitRequest struct {
	FormType       string
	IdentifierHash string
	HoneypotValue  string
	Payload        any
}

// Decision captures what the guard concluded about an attempt, so the caller
// can log the attempt faithfully even when it was rejected.
type Decision struct {
	HoneypotTriggered bool
	Suspicious        bool
}

type RecordEntry struct {
	FormType          string
	IdentifierHash    string
	HoneypotTriggered bool
	Suspicious        bool
	RecordRef         *string
}

func (r *RecordEntry) ToModel(now time.Time) model.SubmissionRecord {
	return model.SubmissionRecord{
		ID:                uuid.NewString(),
		FormType:          r.FormType,
		IdentifierHash:    r.IdentifierHash,
		HoneypotTriggered: r.HoneypotTriggered,
		Suspicious:        r.Suspicious,
		RecordRef:         r.RecordRef,
		CreatedAt:         now,
	}
}

type SubmissionResponse struct {
	ID                string    `json:"id"`
	FormType          string    `json:"form_type"`
	IdentifierHash    string    `json:"identifier_hash"`
	HoneypotTriggered bool      `json:"honeypot_triggered"`
	Suspicious        bool      `json:"suspicious"`
	RecordRef         *string   `json:"record_ref,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func (s *SubmissionResponse) FromModel(model model.SubmissionRecord) {
	s.ID = model.ID
	s.FormType = model.FormType
	s.IdentifierHash = model.IdentifierHash
	s.HoneypotTriggered = model.HoneypotTriggered
	s.Suspicious = model.Suspicious
	s.RecordRef = model.RecordRef
	s.CreatedAt = model.CreatedAt
}

type GetSubmissionsResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (g *GetSubmissionsResponse) FromModels(models []model.SubmissionRecord, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Submissions = make([]SubmissionResponse, len(models))
	for i, mod := range models {
		g.Submissions[i].FromModel(mod)
	}
}
