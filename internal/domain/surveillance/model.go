// Package surveillance implements public-health event notification and the
// facility's vigilance records: notifiable-event notifications bucketed by
// epidemiological week, pharmacovigilance and technovigilance reports.
package surveillance

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("surveillance: not found")
	ErrValidation = errors.New("surveillance: validation failed")
)

// NotificationType distinguishes routine weekly notification from
// immediate-notification events.
type NotificationType string

const (
	NotifyWeekly    NotificationType = "WEEKLY"
	NotifyImmediate NotificationType = "IMMEDIATE"
)

// Severity grades a vigilance report.
type Severity string

const (
	SeverityMild     Severity = "MILD"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
	SeverityFatal    Severity = "FATAL"
)

var validSeverities = map[Severity]bool{
	SeverityMild: true, SeverityModerate: true, SeveritySevere: true, SeverityFatal: true,
}

func (s Severity) Valid() bool { return validSeverities[s] }

// Notification maps to the svl_notification table: one notifiable-event
// notification. EpiWeek and EpiYear are stamped from NotifiedAt on create and
// never supplied by the caller.
type Notification struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	PatientRef       string           `db:"patient_ref" json:"patient_ref"`
	EventCode        string           `db:"event_code" json:"event_code"`
	EventName        string           `db:"event_name" json:"event_name"`
	NotificationType NotificationType `db:"notification_type" json:"notification_type"`
	EpiWeek          int              `db:"epi_week" json:"epi_week"`
	EpiYear          int              `db:"epi_year" json:"epi_year"`
	NotifiedAt       time.Time        `db:"notified_at" json:"notified_at"`
	SymptomOnset     *time.Time       `db:"symptom_onset" json:"symptom_onset,omitempty"`
	InitialClass     *string          `db:"initial_class" json:"initial_class,omitempty"`
	Hospitalized     bool             `db:"hospitalized" json:"hospitalized"`
	SubmittedAt      *time.Time       `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
}

// PharmacoReport maps to the svl_pharmaco_report table: one suspected adverse
// drug reaction report.
type PharmacoReport struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	PatientRef          string     `db:"patient_ref" json:"patient_ref"`
	ProductRef          string     `db:"product_ref" json:"product_ref"`
	ReportType          *string    `db:"report_type" json:"report_type,omitempty"`
	EventDate           time.Time  `db:"event_date" json:"event_date"`
	ReactionDescription string     `db:"reaction_description" json:"reaction_description"`
	Severity            Severity   `db:"severity" json:"severity"`
	Causality           *string    `db:"causality" json:"causality,omitempty"`
	Outcome             *string    `db:"outcome" json:"outcome,omitempty"`
	ActionTaken         *string    `db:"action_taken" json:"action_taken,omitempty"`
	SubmittedAt         *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

// TechnoReport maps to the svl_techno_report table: one medical-device
// incident report.
type TechnoReport struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	PatientRef           *string    `db:"patient_ref" json:"patient_ref,omitempty"`
	DeviceName           string     `db:"device_name" json:"device_name"`
	Manufacturer         *string    `db:"manufacturer" json:"manufacturer,omitempty"`
	SanitaryRegistration *string    `db:"sanitary_registration" json:"sanitary_registration,omitempty"`
	Lot                  *string    `db:"lot" json:"lot,omitempty"`
	EventDate            time.Time  `db:"event_date" json:"event_date"`
	IncidentDescription  string     `db:"incident_description" json:"incident_description"`
	Consequences         *string    `db:"consequences" json:"consequences,omitempty"`
	Severity             Severity   `db:"severity" json:"severity"`
	ActionTaken          *string    `db:"action_taken" json:"action_taken,omitempty"`
	SubmittedAt          *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
}

// EventCount is one line of the weekly per-event grouping.
type EventCount struct {
	EventCode string `json:"event_code"`
	EventName string `json:"event_name"`
	Count     int    `json:"count"`
}

// VigilanceFilter narrows vigilance report listings to a calendar month.
// Zero values mean no filter.
type VigilanceFilter struct {
	Year  int
	Month int
}
