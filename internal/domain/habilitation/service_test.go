package habilitation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	standards   map[uuid.UUID]*Standard
	criteria    map[uuid.UUID]*Criterion
	assessments map[uuid.UUID]*Assessment
	evaluations map[uuid.UUID]map[uuid.UUID]*CriterionEvaluation // assessment -> criterion
	visits      []*VerificationVisit
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		standards:   map[uuid.UUID]*Standard{},
		criteria:    map[uuid.UUID]*Criterion{},
		assessments: map[uuid.UUID]*Assessment{},
		evaluations: map[uuid.UUID]map[uuid.UUID]*CriterionEvaluation{},
	}
}

func (r *fakeRepo) CreateStandard(_ context.Context, s *Standard) error {
	s.ID = uuid.New()
	r.standards[s.ID] = s
	return nil
}

func (r *fakeRepo) GetStandard(_ context.Context, id uuid.UUID) (*Standard, error) {
	if s, ok := r.standards[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetStandardByCode(_ context.Context, code string) (*Standard, error) {
	for _, s := range r.standards {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) UpdateStandard(_ context.Context, s *Standard) error {
	r.standards[s.ID] = s
	return nil
}

func (r *fakeRepo) ListStandards(_ context.Context, activeOnly bool, _, _ int) ([]*Standard, int, error) {
	var out []*Standard
	for _, s := range r.standards {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	return out, len(out), nil
}

func (r *fakeRepo) CreateCriterion(_ context.Context, c *Criterion) error {
	c.ID = uuid.New()
	r.criteria[c.ID] = c
	return nil
}

func (r *fakeRepo) GetCriterion(_ context.Context, id uuid.UUID) (*Criterion, error) {
	if c, ok := r.criteria[id]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ListCriteria(_ context.Context, standardID uuid.UUID) ([]*Criterion, error) {
	var out []*Criterion
	for _, c := range r.criteria {
		if c.StandardID == standardID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateAssessment(_ context.Context, a *Assessment) error {
	a.ID = uuid.New()
	a.VersionID = 1
	r.assessments[a.ID] = a
	return nil
}

func (r *fakeRepo) GetAssessment(_ context.Context, id uuid.UUID) (*Assessment, error) {
	if a, ok := r.assessments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) UpdateAssessment(_ context.Context, a *Assessment) error {
	cur, ok := r.assessments[a.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.VersionID != a.VersionID {
		return ErrConflict
	}
	a.VersionID++
	cp := *a
	r.assessments[a.ID] = &cp
	return nil
}

func (r *fakeRepo) ListAssessments(_ context.Context, standardID *uuid.UUID, _, _ int) ([]*Assessment, int, error) {
	var out []*Assessment
	for _, a := range r.assessments {
		if standardID != nil && a.StandardID != *standardID {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (r *fakeRepo) LatestClosedAssessment(_ context.Context, standardID uuid.UUID) (*Assessment, error) {
	var latest *Assessment
	for _, a := range r.assessments {
		if a.StandardID != standardID || a.Status != AssessmentClosed {
			continue
		}
		if latest == nil || a.ClosedAt.After(*latest.ClosedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (r *fakeRepo) UpsertEvaluation(_ context.Context, e *CriterionEvaluation) error {
	if r.evaluations[e.AssessmentID] == nil {
		r.evaluations[e.AssessmentID] = map[uuid.UUID]*CriterionEvaluation{}
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.evaluations[e.AssessmentID][e.CriterionID] = e
	return nil
}

func (r *fakeRepo) ListEvaluations(_ context.Context, assessmentID uuid.UUID) ([]*CriterionEvaluation, error) {
	var out []*CriterionEvaluation
	for _, e := range r.evaluations[assessmentID] {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeRepo) CreateVisit(_ context.Context, v *VerificationVisit) error {
	v.ID = uuid.New()
	r.visits = append(r.visits, v)
	return nil
}

func (r *fakeRepo) ListVisits(_ context.Context, _, _ int) ([]*VerificationVisit, int, error) {
	return r.visits, len(r.visits), nil
}

func seedStandard(t *testing.T, svc *Service, weights []float64) (*Standard, []*Criterion) {
	t.Helper()
	ctx := context.Background()

	std := &Standard{Code: "TH", Type: "talento_humano", Name: "Talento Humano"}
	if err := svc.CreateStandard(ctx, std); err != nil {
		t.Fatalf("CreateStandard: %v", err)
	}

	var criteria []*Criterion
	for i, w := range weights {
		c := &Criterion{
			StandardID:  std.ID,
			Code:        "TH-" + string(rune('1'+i)),
			Description: "criterio",
			Weight:      w,
		}
		if err := svc.AddCriterion(ctx, c); err != nil {
			t.Fatalf("AddCriterion: %v", err)
		}
		criteria = append(criteria, c)
	}
	return std, criteria
}

func TestCreateStandardRejectsDuplicateCode(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if err := svc.CreateStandard(ctx, &Standard{Code: "TH", Type: "t", Name: "n"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := svc.CreateStandard(ctx, &Standard{Code: "TH", Type: "t", Name: "otro"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate create error = %v, want ErrValidation", err)
	}
}

func TestAddCriterionRejectsNonPositiveWeight(t *testing.T) {
	svc := NewService(newFakeRepo())
	std, _ := seedStandard(t, svc, nil)

	for _, w := range []float64{0, -1} {
		err := svc.AddCriterion(context.Background(), &Criterion{
			StandardID: std.ID, Code: "X", Description: "d", Weight: w,
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("weight %v error = %v, want ErrValidation", w, err)
		}
	}
}

func TestAssessmentLifecycle(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	_, criteria := seedStandard(t, svc, []float64{2, 3, 1})
	std := criteria[0].StandardID

	a := &Assessment{StandardID: std, Evaluator: "auditor interno"}
	if err := svc.StartAssessment(ctx, a); err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}

	verdicts := []Verdict{VerdictCompliant, VerdictPartiallyCompliant, VerdictNonCompliant}
	var updated *Assessment
	var err error
	for i, v := range verdicts {
		updated, err = svc.EvaluateCriterion(ctx, a.ID, &CriterionEvaluation{
			CriterionID: criteria[i].ID, Verdict: v,
		})
		if err != nil {
			t.Fatalf("EvaluateCriterion %d: %v", i, err)
		}
	}
	if got := updated.CompliancePercentage; got < 58.33 || got > 58.34 {
		t.Errorf("running percentage = %.4f, want 58.33", got)
	}

	closed, err := svc.CloseAssessment(ctx, a.ID)
	if err != nil {
		t.Fatalf("CloseAssessment: %v", err)
	}
	if closed.Status != AssessmentClosed || closed.ClosedAt == nil {
		t.Errorf("close did not seal the assessment: %+v", closed)
	}
	if got := closed.CompliancePercentage; got < 58.33 || got > 58.34 {
		t.Errorf("final percentage = %.4f, want 58.33", got)
	}

	// closed is terminal
	if _, err := svc.CloseAssessment(ctx, a.ID); !errors.Is(err, ErrClosed) {
		t.Errorf("second close error = %v, want ErrClosed", err)
	}
	_, err = svc.EvaluateCriterion(ctx, a.ID, &CriterionEvaluation{
		CriterionID: criteria[0].ID, Verdict: VerdictCompliant,
	})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("evaluate after close error = %v, want ErrClosed", err)
	}
}

func TestEvaluateOverwritesInPlace(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	_, criteria := seedStandard(t, svc, []float64{1})

	a := &Assessment{StandardID: criteria[0].StandardID, Evaluator: "e"}
	if err := svc.StartAssessment(ctx, a); err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}

	if _, err := svc.EvaluateCriterion(ctx, a.ID, &CriterionEvaluation{
		CriterionID: criteria[0].ID, Verdict: VerdictNonCompliant,
	}); err != nil {
		t.Fatalf("first evaluation: %v", err)
	}
	updated, err := svc.EvaluateCriterion(ctx, a.ID, &CriterionEvaluation{
		CriterionID: criteria[0].ID, Verdict: VerdictCompliant,
	})
	if err != nil {
		t.Fatalf("second evaluation: %v", err)
	}

	evs, err := svc.ListEvaluations(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListEvaluations: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("got %d evaluations, want 1 (overwrite in place)", len(evs))
	}
	if evs[0].Verdict != VerdictCompliant {
		t.Errorf("verdict = %s, want overwritten to COMPLIANT", evs[0].Verdict)
	}
	if updated.CompliancePercentage != 100 {
		t.Errorf("percentage = %f, want 100 after overwrite", updated.CompliancePercentage)
	}
}

func TestEvaluateRejectsForeignCriterion(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	_, criteria := seedStandard(t, svc, []float64{1})

	other := &Standard{Code: "INF", Type: "infraestructura", Name: "Infraestructura"}
	if err := svc.CreateStandard(ctx, other); err != nil {
		t.Fatalf("CreateStandard: %v", err)
	}
	foreign := &Criterion{StandardID: other.ID, Code: "INF-1", Description: "d", Weight: 1}
	if err := svc.AddCriterion(ctx, foreign); err != nil {
		t.Fatalf("AddCriterion: %v", err)
	}

	a := &Assessment{StandardID: criteria[0].StandardID, Evaluator: "e"}
	if err := svc.StartAssessment(ctx, a); err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}

	_, err := svc.EvaluateCriterion(ctx, a.ID, &CriterionEvaluation{
		CriterionID: foreign.ID, Verdict: VerdictCompliant,
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("foreign criterion error = %v, want ErrValidation", err)
	}
}

func TestEvaluateRejectsInvalidVerdict(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, criteria := seedStandard(t, svc, []float64{1})

	a := &Assessment{StandardID: criteria[0].StandardID, Evaluator: "e"}
	if err := svc.StartAssessment(context.Background(), a); err != nil {
		t.Fatalf("StartAssessment: %v", err)
	}
	_, err := svc.EvaluateCriterion(context.Background(), a.ID, &CriterionEvaluation{
		CriterionID: criteria[0].ID, Verdict: "MAYBE",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("invalid verdict error = %v, want ErrValidation", err)
	}
}

func TestRecordVisitValidatesStandard(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if err := svc.RecordVisit(ctx, &VerificationVisit{Entity: ""}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing entity error = %v, want ErrValidation", err)
	}

	unknown := uuid.New()
	err := svc.RecordVisit(ctx, &VerificationVisit{
		Entity: "Secretaría de Salud", StandardID: &unknown, VisitDate: time.Now(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown standard error = %v, want ErrNotFound", err)
	}
}
