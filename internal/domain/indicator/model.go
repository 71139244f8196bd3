// Package indicator implements the quality-indicator catalog and its monthly
// measurements: ratio computation, target resolution, semaphore
// classification and the pooled semester rollup.
package indicator

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("indicator: not found")
	ErrValidation = errors.New("indicator: validation failed")
)

// Semaphore is the traffic-light classification of a measurement against its
// applied target.
type Semaphore string

const (
	SemaphoreGreen  Semaphore = "GREEN"
	SemaphoreYellow Semaphore = "YELLOW"
	SemaphoreRed    Semaphore = "RED"
)

// Indicator maps to the ind_indicator table: one catalog entry with its
// operational definition and targets. FacilityTarget, when set, takes
// precedence over NationalTarget.
type Indicator struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	Code                  string    `db:"code" json:"code"`
	Name                  string    `db:"name" json:"name"`
	Domain                string    `db:"domain" json:"domain"`
	OperationalDefinition *string   `db:"operational_definition" json:"operational_definition,omitempty"`
	NumeratorFormula      *string   `db:"numerator_formula" json:"numerator_formula,omitempty"`
	DenominatorFormula    *string   `db:"denominator_formula" json:"denominator_formula,omitempty"`
	Unit                  string    `db:"unit" json:"unit"`
	NationalTarget        *float64  `db:"national_target" json:"national_target,omitempty"`
	FacilityTarget        *float64  `db:"facility_target" json:"facility_target,omitempty"`
	DataSource            *string   `db:"data_source" json:"data_source,omitempty"`
	ReportingCadence      string    `db:"reporting_cadence" json:"reporting_cadence"`
	Active                bool      `db:"active" json:"active"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// AppliedTarget resolves the target a measurement is classified against:
// facility target first, then national, then none.
func (i *Indicator) AppliedTarget() *float64 {
	if i.FacilityTarget != nil {
		return i.FacilityTarget
	}
	return i.NationalTarget
}

// Measurement maps to the ind_measurement table: one "YYYY-MM" period of one
// indicator. At most one row exists per (indicator, period); registering the
// same period again overwrites it.
type Measurement struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	IndicatorID   uuid.UUID  `db:"indicator_id" json:"indicator_id"`
	Period        string     `db:"period" json:"period"`
	Numerator     float64    `db:"numerator" json:"numerator"`
	Denominator   float64    `db:"denominator" json:"denominator"`
	Ratio         float64    `db:"ratio" json:"ratio"`
	AppliedTarget *float64   `db:"applied_target" json:"applied_target,omitempty"`
	MeetsTarget   bool       `db:"meets_target" json:"meets_target"`
	Semaphore     Semaphore  `db:"semaphore" json:"semaphore"`
	Analysis      *string    `db:"analysis" json:"analysis,omitempty"`
	Source        *string    `db:"source" json:"source,omitempty"`
	RecordedAt    time.Time  `db:"recorded_at" json:"recorded_at"`
	ReportedAt    *time.Time `db:"reported_at" json:"reported_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
