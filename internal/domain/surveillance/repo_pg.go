package surveillance

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

const notificationCols = `id, patient_ref, event_code, event_name, notification_type, epi_week, epi_year,
	notified_at, symptom_onset, initial_class, hospitalized, submitted_at, created_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.PatientRef, &n.EventCode, &n.EventName, &n.NotificationType, &n.EpiWeek, &n.EpiYear,
		&n.NotifiedAt, &n.SymptomOnset, &n.InitialClass, &n.Hospitalized, &n.SubmittedAt, &n.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

func (r *repoPG) CreateNotification(ctx context.Context, n *Notification) error {
	n.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO svl_notification (id, patient_ref, event_code, event_name, notification_type,
			epi_week, epi_year, notified_at, symptom_onset, initial_class, hospitalized)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		n.ID, n.PatientRef, n.EventCode, n.EventName, n.NotificationType,
		n.EpiWeek, n.EpiYear, n.NotifiedAt, n.SymptomOnset, n.InitialClass, n.Hospitalized)
	return err
}

func (r *repoPG) GetNotification(ctx context.Context, id uuid.UUID) (*Notification, error) {
	return scanNotification(r.pool.QueryRow(ctx,
		`SELECT `+notificationCols+` FROM svl_notification WHERE id = $1`, id))
}

func (r *repoPG) ListNotifications(ctx context.Context, week, year int, eventCode string, limit, offset int) ([]*Notification, int, error) {
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
	if week > 0 {
		add(`epi_week = `, week)
	}
	if year > 0 {
		add(`epi_year = `, year)
	}
	if eventCode != "" {
		add(`event_code = `, eventCode)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM svl_notification`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	dataArgs := append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationCols+` FROM svl_notification`+where+
			` ORDER BY notified_at DESC LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2), dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Notification
	for rows.Next() {
		item, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *repoPG) WeekNotifications(ctx context.Context, week, year int) ([]*Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationCols+` FROM svl_notification
		WHERE epi_week = $1 AND epi_year = $2
		ORDER BY event_code, notified_at`, week, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Notification
	for rows.Next() {
		item, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repoPG) MarkNotificationSubmitted(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE svl_notification SET submitted_at = NOW() WHERE id = $1 AND submitted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const pharmacoCols = `id, patient_ref, product_ref, report_type, event_date, reaction_description,
	severity, causality, outcome, action_taken, submitted_at, created_at`

func scanPharmaco(row pgx.Row) (*PharmacoReport, error) {
	var p PharmacoReport
	err := row.Scan(&p.ID, &p.PatientRef, &p.ProductRef, &p.ReportType, &p.EventDate, &p.ReactionDescription,
		&p.Severity, &p.Causality, &p.Outcome, &p.ActionTaken, &p.SubmittedAt, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *repoPG) CreatePharmacoReport(ctx context.Context, p *PharmacoReport) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO svl_pharmaco_report (id, patient_ref, product_ref, report_type, event_date,
			reaction_description, severity, causality, outcome, action_taken)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.PatientRef, p.ProductRef, p.ReportType, p.EventDate,
		p.ReactionDescription, p.Severity, p.Causality, p.Outcome, p.ActionTaken)
	return err
}

func (r *repoPG) ListPharmacoReports(ctx context.Context, f VigilanceFilter, limit, offset int) ([]*PharmacoReport, int, error) {
	where, args := monthFilter(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM svl_pharmaco_report`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	dataArgs := append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+pharmacoCols+` FROM svl_pharmaco_report`+where+
			` ORDER BY event_date DESC LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2), dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*PharmacoReport
	for rows.Next() {
		item, err := scanPharmaco(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *repoPG) MarkPharmacoSubmitted(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE svl_pharmaco_report SET submitted_at = NOW() WHERE id = $1 AND submitted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const technoCols = `id, patient_ref, device_name, manufacturer, sanitary_registration, lot, event_date,
	incident_description, consequences, severity, action_taken, submitted_at, created_at`

func scanTechno(row pgx.Row) (*TechnoReport, error) {
	var t TechnoReport
	err := row.Scan(&t.ID, &t.PatientRef, &t.DeviceName, &t.Manufacturer, &t.SanitaryRegistration, &t.Lot, &t.EventDate,
		&t.IncidentDescription, &t.Consequences, &t.Severity, &t.ActionTaken, &t.SubmittedAt, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *repoPG) CreateTechnoReport(ctx context.Context, t *TechnoReport) error {
	t.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO svl_techno_report (id, patient_ref, device_name, manufacturer, sanitary_registration,
			lot, event_date, incident_description, consequences, severity, action_taken)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		t.ID, t.PatientRef, t.DeviceName, t.Manufacturer, t.SanitaryRegistration,
		t.Lot, t.EventDate, t.IncidentDescription, t.Consequences, t.Severity, t.ActionTaken)
	return err
}

func (r *repoPG) ListTechnoReports(ctx context.Context, f VigilanceFilter, limit, offset int) ([]*TechnoReport, int, error) {
	where, args := monthFilter(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM svl_techno_report`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	dataArgs := append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+technoCols+` FROM svl_techno_report`+where+
			` ORDER BY event_date DESC LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2), dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*TechnoReport
	for rows.Next() {
		item, err := scanTechno(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *repoPG) MarkTechnoSubmitted(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE svl_techno_report SET submitted_at = NOW() WHERE id = $1 AND submitted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// monthFilter builds the event_date month window clause for vigilance
// listings.
func monthFilter(f VigilanceFilter) (string, []interface{}) {
	if f.Year == 0 || f.Month == 0 {
		return "", nil
	}
	return ` WHERE date_trunc('month', event_date) = make_date($1, $2, 1)`,
		[]interface{}{f.Year, f.Month}
}
