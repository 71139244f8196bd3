package habilitation

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence boundary of the habilitation domain.
type Repository interface {
	CreateStandard(ctx context.Context, s *Standard) error
	GetStandard(ctx context.Context, id uuid.UUID) (*Standard, error)
	GetStandardByCode(ctx context.Context, code string) (*Standard, error)
	UpdateStandard(ctx context.Context, s *Standard) error
	ListStandards(ctx context.Context, activeOnly bool, limit, offset int) ([]*Standard, int, error)

	CreateCriterion(ctx context.Context, c *Criterion) error
	GetCriterion(ctx context.Context, id uuid.UUID) (*Criterion, error)
	ListCriteria(ctx context.Context, standardID uuid.UUID) ([]*Criterion, error)

	CreateAssessment(ctx context.Context, a *Assessment) error
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	// UpdateAssessment persists the assessment guarded by its version: the
	// row is only written when version_id still matches, and the in-memory
	// version is bumped on success. A stale version yields ErrConflict.
	UpdateAssessment(ctx context.Context, a *Assessment) error
	ListAssessments(ctx context.Context, standardID *uuid.UUID, limit, offset int) ([]*Assessment, int, error)
	// LatestClosedAssessment returns the most recently closed assessment of
	// the standard, or ErrNotFound when none was ever closed.
	LatestClosedAssessment(ctx context.Context, standardID uuid.UUID) (*Assessment, error)

	UpsertEvaluation(ctx context.Context, e *CriterionEvaluation) error
	ListEvaluations(ctx context.Context, assessmentID uuid.UUID) ([]*CriterionEvaluation, error)

	CreateVisit(ctx context.Context, v *VerificationVisit) error
	ListVisits(ctx context.Context, limit, offset int) ([]*VerificationVisit, int, error)
}
