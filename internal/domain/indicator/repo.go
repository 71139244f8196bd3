package indicator

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence boundary of the indicator domain.
type Repository interface {
	CreateIndicator(ctx context.Context, i *Indicator) error
	GetIndicator(ctx context.Context, id uuid.UUID) (*Indicator, error)
	GetIndicatorByCode(ctx context.Context, code string) (*Indicator, error)
	UpdateIndicator(ctx context.Context, i *Indicator) error
	ListIndicators(ctx context.Context, activeOnly bool, domain string, limit, offset int) ([]*Indicator, int, error)

	// UpsertMeasurement inserts the measurement or overwrites the existing
	// row for the same (indicator, period).
	UpsertMeasurement(ctx context.Context, m *Measurement) error
	GetMeasurement(ctx context.Context, indicatorID uuid.UUID, period string) (*Measurement, error)
	// ListMeasurements returns the indicator's measurements for the given
	// periods in ascending period order, skipping missing ones.
	ListMeasurements(ctx context.Context, indicatorID uuid.UUID, periods []string) ([]*Measurement, error)
	// Trend returns the indicator's most recent measurements, newest first.
	Trend(ctx context.Context, indicatorID uuid.UUID, n int) ([]*Measurement, error)
	// MarkReported stamps reported_at on the period's unreported
	// measurements and returns how many rows were stamped.
	MarkReported(ctx context.Context, period string) (int, error)
}
