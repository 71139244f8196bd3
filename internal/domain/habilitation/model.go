// Package habilitation implements the self-assessment of enabling conditions:
// standards and their weighted verification criteria, assessments with
// per-criterion verdicts, and the compliance score derived from them.
package habilitation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("habilitation: not found")
	ErrValidation = errors.New("habilitation: validation failed")
	ErrClosed     = errors.New("habilitation: assessment is closed")
	ErrConflict   = errors.New("habilitation: concurrent modification")
)

// Verdict is the outcome recorded for one criterion in an assessment.
type Verdict string

const (
	VerdictCompliant          Verdict = "COMPLIANT"
	VerdictPartiallyCompliant Verdict = "PARTIALLY_COMPLIANT"
	VerdictNonCompliant       Verdict = "NON_COMPLIANT"
	VerdictNotApplicable      Verdict = "NOT_APPLICABLE"
)

var validVerdicts = map[Verdict]bool{
	VerdictCompliant:          true,
	VerdictPartiallyCompliant: true,
	VerdictNonCompliant:       true,
	VerdictNotApplicable:      true,
}

func (v Verdict) Valid() bool { return validVerdicts[v] }

// AssessmentStatus is the lifecycle state of an assessment. Closed is
// terminal: a closed assessment never accepts further evaluations.
type AssessmentStatus string

const (
	AssessmentInProgress AssessmentStatus = "IN_PROGRESS"
	AssessmentClosed     AssessmentStatus = "CLOSED"
)

// Standard maps to the hab_standard table: one enabling-condition standard
// (talento humano, infraestructura, dotación, ...) from the current norm.
type Standard struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Type        string    `db:"type" json:"type"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	NormRef     *string   `db:"norm_ref" json:"norm_ref,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Criterion maps to the hab_criterion table: one verifiable requirement of a
// standard with its relative weight in the standard's score.
type Criterion struct {
	ID               uuid.UUID `db:"id" json:"id"`
	StandardID       uuid.UUID `db:"standard_id" json:"standard_id"`
	Code             string    `db:"code" json:"code"`
	Description      string    `db:"description" json:"description"`
	VerificationMode *string   `db:"verification_mode" json:"verification_mode,omitempty"`
	Weight           float64   `db:"weight" json:"weight"`
	Active           bool      `db:"active" json:"active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Assessment maps to the hab_assessment table: one evaluation round of a
// standard, optionally scoped to a declared service.
type Assessment struct {
	ID                   uuid.UUID        `db:"id" json:"id"`
	StandardID           uuid.UUID        `db:"standard_id" json:"standard_id"`
	ServiceCode          *string          `db:"service_code" json:"service_code,omitempty"`
	Evaluator            string           `db:"evaluator" json:"evaluator"`
	Status               AssessmentStatus `db:"status" json:"status"`
	CompliancePercentage float64          `db:"compliance_percentage" json:"compliance_percentage"`
	EvaluatedAt          time.Time        `db:"evaluated_at" json:"evaluated_at"`
	ClosedAt             *time.Time       `db:"closed_at" json:"closed_at,omitempty"`
	VersionID            int              `db:"version_id" json:"version_id"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time        `db:"updated_at" json:"updated_at"`
}

// CriterionEvaluation maps to the hab_criterion_evaluation table: the verdict
// for one criterion within one assessment. At most one row exists per
// (assessment, criterion); re-evaluating overwrites in place.
type CriterionEvaluation struct {
	ID          uuid.UUID `db:"id" json:"id"`
	AssessmentID uuid.UUID `db:"assessment_id" json:"assessment_id"`
	CriterionID uuid.UUID `db:"criterion_id" json:"criterion_id"`
	Verdict     Verdict   `db:"verdict" json:"verdict"`
	Observation *string   `db:"observation" json:"observation,omitempty"`
	EvidenceURL *string   `db:"evidence_url" json:"evidence_url,omitempty"`
	EvaluatedAt time.Time `db:"evaluated_at" json:"evaluated_at"`
}

// VerificationVisit maps to the hab_verification_visit table: an external
// verification visit by the departmental health authority, with its findings.
type VerificationVisit struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	StandardID *uuid.UUID `db:"standard_id" json:"standard_id,omitempty"`
	VisitDate  time.Time  `db:"visit_date" json:"visit_date"`
	Entity     string     `db:"entity" json:"entity"`
	Findings   *string    `db:"findings" json:"findings,omitempty"`
	Result     *string    `db:"result" json:"result,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
