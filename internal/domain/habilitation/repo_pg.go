package habilitation

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the PostgreSQL-backed repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

const standardCols = `id, code, type, name, description, norm_ref, active, created_at, updated_at`

func scanStandard(row pgx.Row) (*Standard, error) {
	var s Standard
	err := row.Scan(&s.ID, &s.Code, &s.Type, &s.Name, &s.Description, &s.NormRef, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *repoPG) CreateStandard(ctx context.Context, s *Standard) error {
	s.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hab_standard (id, code, type, name, description, norm_ref, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.Code, s.Type, s.Name, s.Description, s.NormRef, s.Active)
	return err
}

func (r *repoPG) GetStandard(ctx context.Context, id uuid.UUID) (*Standard, error) {
	return scanStandard(r.pool.QueryRow(ctx, `SELECT `+standardCols+` FROM hab_standard WHERE id = $1`, id))
}

func (r *repoPG) GetStandardByCode(ctx context.Context, code string) (*Standard, error) {
	return scanStandard(r.pool.QueryRow(ctx, `SELECT `+standardCols+` FROM hab_standard WHERE code = $1`, code))
}

func (r *repoPG) UpdateStandard(ctx context.Context, s *Standard) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE hab_standard SET type=$2, name=$3, description=$4, norm_ref=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Type, s.Name, s.Description, s.NormRef, s.Active)
	return err
}

func (r *repoPG) ListStandards(ctx context.Context, activeOnly bool, limit, offset int) ([]*Standard, int, error) {
	where := ``
	if activeOnly {
		where = ` WHERE active`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hab_standard`+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+standardCols+` FROM hab_standard`+where+` ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Standard
	for rows.Next() {
		s, err := scanStandard(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

const criterionCols = `id, standard_id, code, description, verification_mode, weight, active, created_at, updated_at`

func scanCriterion(row pgx.Row) (*Criterion, error) {
	var c Criterion
	err := row.Scan(&c.ID, &c.StandardID, &c.Code, &c.Description, &c.VerificationMode, &c.Weight, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *repoPG) CreateCriterion(ctx context.Context, c *Criterion) error {
	c.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hab_criterion (id, standard_id, code, description, verification_mode, weight, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.StandardID, c.Code, c.Description, c.VerificationMode, c.Weight, c.Active)
	return err
}

func (r *repoPG) GetCriterion(ctx context.Context, id uuid.UUID) (*Criterion, error) {
	return scanCriterion(r.pool.QueryRow(ctx, `SELECT `+criterionCols+` FROM hab_criterion WHERE id = $1`, id))
}

func (r *repoPG) ListCriteria(ctx context.Context, standardID uuid.UUID) ([]*Criterion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+criterionCols+` FROM hab_criterion WHERE standard_id = $1 ORDER BY code`, standardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Criterion
	for rows.Next() {
		c, err := scanCriterion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const assessmentCols = `id, standard_id, service_code, evaluator, status, compliance_percentage,
	evaluated_at, closed_at, version_id, created_at, updated_at`

func scanAssessment(row pgx.Row) (*Assessment, error) {
	var a Assessment
	err := row.Scan(&a.ID, &a.StandardID, &a.ServiceCode, &a.Evaluator, &a.Status, &a.CompliancePercentage,
		&a.EvaluatedAt, &a.ClosedAt, &a.VersionID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *repoPG) CreateAssessment(ctx context.Context, a *Assessment) error {
	a.ID = uuid.New()
	a.VersionID = 1
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hab_assessment (id, standard_id, service_code, evaluator, status, compliance_percentage, evaluated_at, version_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.StandardID, a.ServiceCode, a.Evaluator, a.Status, a.CompliancePercentage, a.EvaluatedAt, a.VersionID)
	return err
}

func (r *repoPG) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	return scanAssessment(r.pool.QueryRow(ctx, `SELECT `+assessmentCols+` FROM hab_assessment WHERE id = $1`, id))
}

func (r *repoPG) UpdateAssessment(ctx context.Context, a *Assessment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE hab_assessment
		SET status=$2, compliance_percentage=$3, closed_at=$4, version_id=version_id+1, updated_at=NOW()
		WHERE id = $1 AND version_id = $5`,
		a.ID, a.Status, a.CompliancePercentage, a.ClosedAt, a.VersionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	a.VersionID++
	return nil
}

func (r *repoPG) ListAssessments(ctx context.Context, standardID *uuid.UUID, limit, offset int) ([]*Assessment, int, error) {
	where := ``
	args := []interface{}{}
	if standardID != nil {
		where = ` WHERE standard_id = $1`
		args = append(args, *standardID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hab_assessment`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	dataArgs := append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+assessmentCols+` FROM hab_assessment`+where+
			` ORDER BY evaluated_at DESC LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2), dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) LatestClosedAssessment(ctx context.Context, standardID uuid.UUID) (*Assessment, error) {
	return scanAssessment(r.pool.QueryRow(ctx, `
		SELECT `+assessmentCols+` FROM hab_assessment
		WHERE standard_id = $1 AND status = $2
		ORDER BY closed_at DESC LIMIT 1`, standardID, AssessmentClosed))
}

const evaluationCols = `id, assessment_id, criterion_id, verdict, observation, evidence_url, evaluated_at`

func scanEvaluation(row pgx.Row) (*CriterionEvaluation, error) {
	var e CriterionEvaluation
	err := row.Scan(&e.ID, &e.AssessmentID, &e.CriterionID, &e.Verdict, &e.Observation, &e.EvidenceURL, &e.EvaluatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *repoPG) UpsertEvaluation(ctx context.Context, e *CriterionEvaluation) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hab_criterion_evaluation (id, assessment_id, criterion_id, verdict, observation, evidence_url, evaluated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (assessment_id, criterion_id)
		DO UPDATE SET verdict = EXCLUDED.verdict, observation = EXCLUDED.observation,
			evidence_url = EXCLUDED.evidence_url, evaluated_at = EXCLUDED.evaluated_at`,
		e.ID, e.AssessmentID, e.CriterionID, e.Verdict, e.Observation, e.EvidenceURL, e.EvaluatedAt)
	return err
}

func (r *repoPG) ListEvaluations(ctx context.Context, assessmentID uuid.UUID) ([]*CriterionEvaluation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+evaluationCols+` FROM hab_criterion_evaluation WHERE assessment_id = $1 ORDER BY evaluated_at`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*CriterionEvaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *repoPG) CreateVisit(ctx context.Context, v *VerificationVisit) error {
	v.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hab_verification_visit (id, standard_id, visit_date, entity, findings, result)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		v.ID, v.StandardID, v.VisitDate, v.Entity, v.Findings, v.Result)
	return err
}

func (r *repoPG) ListVisits(ctx context.Context, limit, offset int) ([]*VerificationVisit, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hab_verification_visit`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, standard_id, visit_date, entity, findings, result, created_at
		FROM hab_verification_visit ORDER BY visit_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*VerificationVisit
	for rows.Next() {
		var v VerificationVisit
		if err := rows.Scan(&v.ID, &v.StandardID, &v.VisitDate, &v.Entity, &v.Findings, &v.Result, &v.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &v)
	}
	return items, total, rows.Err()
}
