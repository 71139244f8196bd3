package indicator

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

const indicatorCols = `id, code, name, domain, operational_definition, numerator_formula, denominator_formula,
	unit, national_target, facility_target, data_source, reporting_cadence, active, created_at, updated_at`

func scanIndicator(row pgx.Row) (*Indicator, error) {
	var i Indicator
	err := row.Scan(&i.ID, &i.Code, &i.Name, &i.Domain, &i.OperationalDefinition, &i.NumeratorFormula, &i.DenominatorFormula,
		&i.Unit, &i.NationalTarget, &i.FacilityTarget, &i.DataSource, &i.ReportingCadence, &i.Active, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &i, nil
}

func (r *repoPG) CreateIndicator(ctx context.Context, i *Indicator) error {
	i.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ind_indicator (id, code, name, domain, operational_definition, numerator_formula, denominator_formula,
			unit, national_target, facility_target, data_source, reporting_cadence, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		i.ID, i.Code, i.Name, i.Domain, i.OperationalDefinition, i.NumeratorFormula, i.DenominatorFormula,
		i.Unit, i.NationalTarget, i.FacilityTarget, i.DataSource, i.ReportingCadence, i.Active)
	return err
}

func (r *repoPG) GetIndicator(ctx context.Context, id uuid.UUID) (*Indicator, error) {
	return scanIndicator(r.pool.QueryRow(ctx, `SELECT `+indicatorCols+` FROM ind_indicator WHERE id = $1`, id))
}

func (r *repoPG) GetIndicatorByCode(ctx context.Context, code string) (*Indicator, error) {
	return scanIndicator(r.pool.QueryRow(ctx, `SELECT `+indicatorCols+` FROM ind_indicator WHERE code = $1`, code))
}

func (r *repoPG) UpdateIndicator(ctx context.Context, i *Indicator) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE ind_indicator SET name=$2, domain=$3, operational_definition=$4, numerator_formula=$5,
			denominator_formula=$6, unit=$7, national_target=$8, facility_target=$9,
			data_source=$10, reporting_cadence=$11, active=$12, updated_at=NOW()
		WHERE id = $1`,
		i.ID, i.Name, i.Domain, i.OperationalDefinition, i.NumeratorFormula,
		i.DenominatorFormula, i.Unit, i.NationalTarget, i.FacilityTarget,
		i.DataSource, i.ReportingCadence, i.Active)
	return err
}

func (r *repoPG) ListIndicators(ctx context.Context, activeOnly bool, domain string, limit, offset int) ([]*Indicator, int, error) {
	where := ``
	args := []interface{}{}
	add := func(cond string, val interface{}) {
		if where == "" {
			where = ` WHERE `
		} else {
			where += ` AND `
		}
		args = append(args, val)
		where += cond + `$` + strconv.Itoa(len(args))
	}
	if activeOnly {
		add(`active = `, true)
	}
	if domain != "" {
		add(`domain = `, domain)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ind_indicator`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	dataArgs := append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+indicatorCols+` FROM ind_indicator`+where+
			` ORDER BY code LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2), dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Indicator
	for rows.Next() {
		i, err := scanIndicator(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, i)
	}
	return items, total, rows.Err()
}

const measurementCols = `id, indicator_id, period, numerator, denominator, ratio, applied_target,
	meets_target, semaphore, analysis, source, recorded_at, reported_at, created_at, updated_at`

func scanMeasurement(row pgx.Row) (*Measurement, error) {
	var m Measurement
	err := row.Scan(&m.ID, &m.IndicatorID, &m.Period, &m.Numerator, &m.Denominator, &m.Ratio, &m.AppliedTarget,
		&m.MeetsTarget, &m.Semaphore, &m.Analysis, &m.Source, &m.RecordedAt, &m.ReportedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *repoPG) UpsertMeasurement(ctx context.Context, m *Measurement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ind_measurement (id, indicator_id, period, numerator, denominator, ratio, applied_target,
			meets_target, semaphore, analysis, source, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (indicator_id, period)
		DO UPDATE SET numerator = EXCLUDED.numerator, denominator = EXCLUDED.denominator,
			ratio = EXCLUDED.ratio, applied_target = EXCLUDED.applied_target,
			meets_target = EXCLUDED.meets_target, semaphore = EXCLUDED.semaphore,
			analysis = EXCLUDED.analysis, source = EXCLUDED.source,
			recorded_at = EXCLUDED.recorded_at, reported_at = NULL, updated_at = NOW()`,
		m.ID, m.IndicatorID, m.Period, m.Numerator, m.Denominator, m.Ratio, m.AppliedTarget,
		m.MeetsTarget, m.Semaphore, m.Analysis, m.Source, m.RecordedAt)
	return err
}

func (r *repoPG) GetMeasurement(ctx context.Context, indicatorID uuid.UUID, period string) (*Measurement, error) {
	return scanMeasurement(r.pool.QueryRow(ctx,
		`SELECT `+measurementCols+` FROM ind_measurement WHERE indicator_id = $1 AND period = $2`,
		indicatorID, period))
}

func (r *repoPG) ListMeasurements(ctx context.Context, indicatorID uuid.UUID, periods []string) ([]*Measurement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+measurementCols+` FROM ind_measurement
		WHERE indicator_id = $1 AND period = ANY($2)
		ORDER BY period`, indicatorID, periods)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *repoPG) Trend(ctx context.Context, indicatorID uuid.UUID, n int) ([]*Measurement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+measurementCols+` FROM ind_measurement
		WHERE indicator_id = $1
		ORDER BY period DESC LIMIT $2`, indicatorID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *repoPG) MarkReported(ctx context.Context, period string) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ind_measurement SET reported_at = NOW(), updated_at = NOW()
		WHERE period = $1 AND reported_at IS NULL`, period)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
