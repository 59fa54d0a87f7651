// Package patient manages the clinical patient registry and the
// consultation notes doctors attach to it.
package patient

// Patient is a registry row. Clinical fields are nullable because
// self-registered accounts start with a minimal profile that the clinic
// fills in on the first visit.
type Patient struct {
	ID        int64   `json:"id"`
	UserID    *int64  `json:"user_id"`
	Name      string  `json:"name"`
	Age       *int    `json:"age"`
	Gender    *string `json:"gender"`
	Village   *string `json:"village"`
	Symptoms  *string `json:"symptoms"`
	Vitals    *string `json:"vitals"`
	RiskLevel string  `json:"risk_level"`
	CreatedAt string  `json:"created_at"`
}

// PatientInput is the staff-facing create/update request. All clinical
// fields are required there.
type PatientInput struct {
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	Village   string `json:"village"`
	Symptoms  string `json:"symptoms"`
	Vitals    string `json:"vitals"`
	RiskLevel string `json:"risk_level"`
}

// ConsultationNote is a free-text note with an optional structured summary
// and follow-up interval.
type ConsultationNote struct {
	ID                int64   `json:"id"`
	PatientID         int64   `json:"patient_id"`
	RawNote           string  `json:"raw_note"`
	StructuredSummary *string `json:"structured_summary"`
	FollowUpDays      *int    `json:"follow_up_days"`
	CreatedAt         string  `json:"created_at"`
	PatientName       string  `json:"patient_name,omitempty"`
}

// NoteInput is the create-note request body.
type NoteInput struct {
	PatientID         int64   `json:"patient_id"`
	RawNote           string  `json:"raw_note"`
	StructuredSummary *string `json:"structured_summary"`
	FollowUpDays      *int    `json:"follow_up_days"`
}
