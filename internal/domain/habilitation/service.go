package habilitation

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

func (s *Service) CreateStandard(ctx context.Context, std *Standard) error {
	if std.Code == "" || std.Name == "" {
		return fmt.Errorf("%w: code and name are required", ErrValidation)
	}
	if _, err := s.repo.GetStandardByCode(ctx, std.Code); err == nil {
		return fmt.Errorf("%w: standard code %s already exists", ErrValidation, std.Code)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	std.Active = true
	return s.repo.CreateStandard(ctx, std)
}

func (s *Service) GetStandard(ctx context.Context, id uuid.UUID) (*Standard, error) {
	return s.repo.GetStandard(ctx, id)
}

func (s *Service) UpdateStandard(ctx context.Context, std *Standard) error {
	if _, err := s.repo.GetStandard(ctx, std.ID); err != nil {
		return err
	}
	return s.repo.UpdateStandard(ctx, std)
}

func (s *Service) ListStandards(ctx context.Context, activeOnly bool, limit, offset int) ([]*Standard, int, error) {
	return s.repo.ListStandards(ctx, activeOnly, limit, offset)
}

func (s *Service) AddCriterion(ctx context.Context, c *Criterion) error {
	if c.Weight <= 0 {
		return fmt.Errorf("%w: criterion weight must be positive", ErrValidation)
	}
	if c.Code == "" || c.Description == "" {
		return fmt.Errorf("%w: code and description are required", ErrValidation)
	}
	if _, err := s.repo.GetStandard(ctx, c.StandardID); err != nil {
		return err
	}
	existing, err := s.repo.ListCriteria(ctx, c.StandardID)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.Code == c.Code {
			return fmt.Errorf("%w: criterion code %s already exists for standard", ErrValidation, c.Code)
		}
	}
	c.Active = true
	return s.repo.CreateCriterion(ctx, c)
}

func (s *Service) ListCriteria(ctx context.Context, standardID uuid.UUID) ([]*Criterion, error) {
	return s.repo.ListCriteria(ctx, standardID)
}

// StartAssessment opens a new in-progress assessment of a standard.
func (s *Service) StartAssessment(ctx context.Context, a *Assessment) error {
	if a.Evaluator == "" {
		return fmt.Errorf("%w: evaluator is required", ErrValidation)
	}
	if _, err := s.repo.GetStandard(ctx, a.StandardID); err != nil {
		return err
	}
	a.Status = AssessmentInProgress
	a.CompliancePercentage = 0
	if a.EvaluatedAt.IsZero() {
		a.EvaluatedAt = time.Now().UTC()
	}
	return s.repo.CreateAssessment(ctx, a)
}

func (s *Service) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	return s.repo.GetAssessment(ctx, id)
}

func (s *Service) ListAssessments(ctx context.Context, standardID *uuid.UUID, limit, offset int) ([]*Assessment, int, error) {
	return s.repo.ListAssessments(ctx, standardID, limit, offset)
}

func (s *Service) ListEvaluations(ctx context.Context, assessmentID uuid.UUID) ([]*CriterionEvaluation, error) {
	if _, err := s.repo.GetAssessment(ctx, assessmentID); err != nil {
		return nil, err
	}
	return s.repo.ListEvaluations(ctx, assessmentID)
}

// EvaluateCriterion records (or overwrites) the verdict for one criterion of
// an in-progress assessment and refreshes the stored percentage.
func (s *Service) EvaluateCriterion(ctx context.Context, assessmentID uuid.UUID, e *CriterionEvaluation) (*Assessment, error) {
	if !e.Verdict.Valid() {
		return nil, fmt.Errorf("%w: invalid verdict %q", ErrValidation, e.Verdict)
	}

	a, err := s.repo.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if a.Status == AssessmentClosed {
		return nil, ErrClosed
	}

	crit, err := s.repo.GetCriterion(ctx, e.CriterionID)
	if err != nil {
		return nil, err
	}
	if crit.StandardID != a.StandardID {
		return nil, fmt.Errorf("%w: criterion %s does not belong to the assessed standard", ErrValidation, crit.Code)
	}

	e.AssessmentID = a.ID
	if e.EvaluatedAt.IsZero() {
		e.EvaluatedAt = time.Now().UTC()
	}
	if err := s.repo.UpsertEvaluation(ctx, e); err != nil {
		return nil, err
	}

	pct, err := s.computePercentage(ctx, a)
	if err != nil {
		return nil, err
	}
	a.CompliancePercentage = pct
	if err := s.repo.UpdateAssessment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ComputePercentage recalculates the assessment's score without persisting it.
func (s *Service) ComputePercentage(ctx context.Context, assessmentID uuid.UUID) (float64, error) {
	a, err := s.repo.GetAssessment(ctx, assessmentID)
	if err != nil {
		return 0, err
	}
	return s.computePercentage(ctx, a)
}

func (s *Service) computePercentage(ctx context.Context, a *Assessment) (float64, error) {
	criteria, err := s.repo.ListCriteria(ctx, a.StandardID)
	if err != nil {
		return 0, err
	}
	evaluations, err := s.repo.ListEvaluations(ctx, a.ID)
	if err != nil {
		return 0, err
	}
	return Score(criteria, evaluations), nil
}

// CloseAssessment recomputes the final percentage and seals the assessment.
// Closed is terminal; a second close fails with ErrClosed.
func (s *Service) CloseAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	a, err := s.repo.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == AssessmentClosed {
		return nil, ErrClosed
	}

	pct, err := s.computePercentage(ctx, a)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a.Status = AssessmentClosed
	a.CompliancePercentage = pct
	a.ClosedAt = &now
	if err := s.repo.UpdateAssessment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// LatestClosedAssessment is used by the declaration builder.
func (s *Service) LatestClosedAssessment(ctx context.Context, standardID uuid.UUID) (*Assessment, error) {
	return s.repo.LatestClosedAssessment(ctx, standardID)
}

func (s *Service) RecordVisit(ctx context.Context, v *VerificationVisit) error {
	if v.Entity == "" {
		return fmt.Errorf("%w: visiting entity is required", ErrValidation)
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now().UTC()
	}
	if v.StandardID != nil {
		if _, err := s.repo.GetStandard(ctx, *v.StandardID); err != nil {
			return err
		}
	}
	return s.repo.CreateVisit(ctx, v)
}

func (s *Service) ListVisits(ctx context.Context, limit, offset int) ([]*VerificationVisit, int, error) {
	return s.repo.ListVisits(ctx, limit, offset)
}
