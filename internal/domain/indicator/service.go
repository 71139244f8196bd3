package indicator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validCadences = map[string]bool{
	"monthly": true, "quarterly": true, "semiannual": true, "annual": true,
}

func (s *Service) CreateIndicator(ctx context.Context, i *Indicator) error {
	if i.Code == "" || i.Name == "" {
		return fmt.Errorf("%w: code and name are required", ErrValidation)
	}
	if i.ReportingCadence == "" {
		i.ReportingCadence = "monthly"
	}
	if !validCadences[i.ReportingCadence] {
		return fmt.Errorf("%w: invalid reporting cadence %q", ErrValidation, i.ReportingCadence)
	}
	if _, err := s.repo.GetIndicatorByCode(ctx, i.Code); err == nil {
		return fmt.Errorf("%w: indicator code %s already exists", ErrValidation, i.Code)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	i.Active = true
	return s.repo.CreateIndicator(ctx, i)
}

func (s *Service) GetIndicator(ctx context.Context, id uuid.UUID) (*Indicator, error) {
	return s.repo.GetIndicator(ctx, id)
}

func (s *Service) GetIndicatorByCode(ctx context.Context, code string) (*Indicator, error) {
	return s.repo.GetIndicatorByCode(ctx, code)
}

func (s *Service) UpdateIndicator(ctx context.Context, i *Indicator) error {
	if i.ReportingCadence != "" && !validCadences[i.ReportingCadence] {
		return fmt.Errorf("%w: invalid reporting cadence %q", ErrValidation, i.ReportingCadence)
	}
	if _, err := s.repo.GetIndicator(ctx, i.ID); err != nil {
		return err
	}
	return s.repo.UpdateIndicator(ctx, i)
}

func (s *Service) ListIndicators(ctx context.Context, activeOnly bool, domain string, limit, offset int) ([]*Indicator, int, error) {
	return s.repo.ListIndicators(ctx, activeOnly, domain, limit, offset)
}

// RegisterMeasurement computes the derived fields of a measurement and
// upserts it for its (indicator, period). A zero denominator is not an error:
// the ratio guards to 0 and classification proceeds against it.
func (s *Service) RegisterMeasurement(ctx context.Context, m *Measurement) error {
	if !ValidPeriod(m.Period) {
		return fmt.Errorf("%w: invalid period %q, want YYYY-MM", ErrValidation, m.Period)
	}
	if m.Numerator < 0 || m.Denominator < 0 {
		return fmt.Errorf("%w: numerator and denominator must be non-negative", ErrValidation)
	}

	ind, err := s.repo.GetIndicator(ctx, m.IndicatorID)
	if err != nil {
		return err
	}

	m.Ratio = 0
	if m.Denominator > 0 {
		m.Ratio = m.Numerator / m.Denominator
	}
	m.AppliedTarget = ind.AppliedTarget()
	m.Semaphore = Classify(m.Ratio, m.AppliedTarget)
	m.MeetsTarget = m.AppliedTarget != nil && m.Ratio >= *m.AppliedTarget
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now().UTC()
	}

	return s.repo.UpsertMeasurement(ctx, m)
}

func (s *Service) GetMeasurement(ctx context.Context, indicatorID uuid.UUID, period string) (*Measurement, error) {
	return s.repo.GetMeasurement(ctx, indicatorID, period)
}

// SemesterMeasurements returns the indicator's measurements across the six
// months of the semester, plus their pooled rollup.
func (s *Service) SemesterMeasurements(ctx context.Context, indicatorID uuid.UUID, semester string) ([]*Measurement, RollupResult, error) {
	periods, err := SemesterPeriods(semester)
	if err != nil {
		return nil, RollupResult{}, err
	}
	ind, err := s.repo.GetIndicator(ctx, indicatorID)
	if err != nil {
		return nil, RollupResult{}, err
	}
	ms, err := s.repo.ListMeasurements(ctx, indicatorID, periods)
	if err != nil {
		return nil, RollupResult{}, err
	}
	return ms, Rollup(ms, ind.AppliedTarget()), nil
}

// Trend returns the last n measurements of the indicator, newest first.
func (s *Service) Trend(ctx context.Context, indicatorID uuid.UUID, n int) ([]*Measurement, error) {
	if n <= 0 {
		n = 12
	}
	if _, err := s.repo.GetIndicator(ctx, indicatorID); err != nil {
		return nil, err
	}
	return s.repo.Trend(ctx, indicatorID, n)
}

// MarkReported flags every unreported measurement of the period as submitted
// to the national platform and returns the count of flagged rows.
func (s *Service) MarkReported(ctx context.Context, period string) (int, error) {
	if !ValidPeriod(period) {
		return 0, fmt.Errorf("%w: invalid period %q, want YYYY-MM", ErrValidation, period)
	}
	return s.repo.MarkReported(ctx, period)
}
