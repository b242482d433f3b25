package model

import "time"

const (
	TableName  = "submission_logs"
	EntityName = "submission"

	WindowTableName = "submission_windows"

	FieldID                = "id"
	FieldFormType          = "form_type"
	FieldIdentifierHash    = "identifier_hash"
	FieldHoneypotTriggered = "honeypot_triggered"
	FieldSuspicious        = "suspicious"
	FieldRecordRef         = "record_ref"
	FieldCreatedAt         = "created_at"
)

// SubmissionRecord is one append-only audit line per submission attempt,
// written whether the attempt succeeded or was rejected. Only the hash of the
// submitter identifier is persisted, never the raw value.
type SubmissionRecord struct {
	ID                string    `db:"id"`
	FormType          string    `db:"form_type"`
	IdentifierHash    string    `db:"identifier_hash"`
	HoneypotTriggered bool      `db:"honeypot_triggered"`
	Suspicious        bool      `db:"suspicious"`
	RecordRef         *string   `db:"record_ref"`
	CreatedAt         time.Time `db:"created_at"`
}

// SubmissionWindow is the rate-limit counter for one (form type, identifier)
// pair. The row is maintained by a single atomic upsert so concurrent
// submissions never lose increments.
type SubmissionWindow struct {
	FormType       string    `db:"form_type"`
	IdentifierHash string    `db:"identifier_hash"`
	Count          int       `db:"count"`
	WindowStart    time.Time `db:"window_start"`
}
