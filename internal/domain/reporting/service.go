// Package reporting assembles the regulatory reports: it pulls from the
// habilitation, indicator and surveillance domains, builds format-agnostic
// canonical reports and exposes the export endpoints that render them.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicamia/compliance-api/internal/domain/habilitation"
	"github.com/clinicamia/compliance-api/internal/domain/indicator"
	"github.com/clinicamia/compliance-api/internal/domain/surveillance"
	"github.com/clinicamia/compliance-api/internal/platform/report"
)

// ErrEmptyReport is returned when every section of a report failed to build.
var ErrEmptyReport = errors.New("reporting: no section could be built")

// listAll is the page size used when a report needs the full record set.
const listAll = 10000

// HabilitationSource is what the declaration builder needs from the
// habilitation domain.
type HabilitationSource interface {
	ListStandards(ctx context.Context, activeOnly bool, limit, offset int) ([]*habilitation.Standard, int, error)
	ListCriteria(ctx context.Context, standardID uuid.UUID) ([]*habilitation.Criterion, error)
	LatestClosedAssessment(ctx context.Context, standardID uuid.UUID) (*habilitation.Assessment, error)
	ListEvaluations(ctx context.Context, assessmentID uuid.UUID) ([]*habilitation.CriterionEvaluation, error)
}

// IndicatorSource is what the semiannual builder needs from the indicator
// domain.
type IndicatorSource interface {
	ListIndicators(ctx context.Context, activeOnly bool, domain string, limit, offset int) ([]*indicator.Indicator, int, error)
	SemesterMeasurements(ctx context.Context, indicatorID uuid.UUID, semester string) ([]*indicator.Measurement, indicator.RollupResult, error)
}

// SurveillanceSource is what the weekly and vigilance builders need from the
// surveillance domain.
type SurveillanceSource interface {
	WeeklyReport(ctx context.Context, week, year int) ([]*surveillance.Notification, []surveillance.EventCount, error)
	ListPharmaco(ctx context.Context, f surveillance.VigilanceFilter, limit, offset int) ([]*surveillance.PharmacoReport, int, error)
	ListTechno(ctx context.Context, f surveillance.VigilanceFilter, limit, offset int) ([]*surveillance.TechnoReport, int, error)
}

type Service struct {
	hab      HabilitationSource
	ind      IndicatorSource
	svl      SurveillanceSource
	facility report.Header
	log      zerolog.Logger
	now      func() time.Time
}

// NewService wires the aggregator. facility carries the provider identity
// emitted in every report header; GeneratedAt and SchemaID are stamped per
// build.
func NewService(hab HabilitationSource, ind IndicatorSource, svl SurveillanceSource, facility report.Header, log zerolog.Logger) *Service {
	return &Service{
		hab:      hab,
		ind:      ind,
		svl:      svl,
		facility: facility,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) newReport(title, schemaID string) *report.Report {
	h := s.facility
	h.GeneratedAt = s.now()
	h.SchemaID = schemaID
	return &report.Report{Title: title, Header: h}
}

// addSection runs one section builder, isolating its failure: a failing
// section becomes a diagnostic and the rest of the report still renders.
func (s *Service) addSection(r *report.Report, id string, build func() (report.Section, error)) {
	sec, err := build()
	if err != nil {
		s.log.Warn().Err(err).Str("section", id).Str("report", r.Header.SchemaID).Msg("report section skipped")
		r.Diagnostics = append(r.Diagnostics, fmt.Sprintf("sección %s omitida: %v", id, err))
		return
	}
	r.Sections = append(r.Sections, sec)
}

func (s *Service) finish(r *report.Report) (*report.Report, error) {
	if len(r.Sections) == 0 && len(r.Diagnostics) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyReport, r.Header.SchemaID)
	}
	return r, nil
}

// percentageBucket maps a compliance percentage to its styling bucket using
// the same bands the indicator semaphore uses.
func percentageBucket(pct float64, assessed bool) report.Bucket {
	switch {
	case !assessed:
		return report.BucketNotApplicable
	case pct >= 90:
		return report.BucketGreen
	case pct >= 70:
		return report.BucketYellow
	default:
		return report.BucketRed
	}
}

func semaphoreBucket(s indicator.Semaphore) report.Bucket {
	switch s {
	case indicator.SemaphoreGreen:
		return report.BucketGreen
	case indicator.SemaphoreYellow:
		return report.BucketYellow
	case indicator.SemaphoreRed:
		return report.BucketRed
	default:
		return report.BucketNone
	}
}

func severityBucket(sev surveillance.Severity) report.Bucket {
	switch sev {
	case surveillance.SeverityFatal, surveillance.SeveritySevere:
		return report.BucketRed
	case surveillance.SeverityModerate:
		return report.BucketYellow
	default:
		return report.BucketGreen
	}
}

// BuildComplianceDeclaration assembles the self-assessment declaration: one
// row per active standard from its latest closed assessment, a facility-wide
// summary and the attestation text.
func (s *Service) BuildComplianceDeclaration(ctx context.Context) (*report.Report, error) {
	r := s.newReport("Declaración de Autoevaluación de Condiciones de Habilitación", "reps-declaracion-v1")

	s.addSection(r, "Estandares", func() (report.Section, error) {
		sec := report.Section{
			ID:       "Estandares",
			ItemName: "Estandar",
			Title:    "Estándares evaluados",
			Columns: []report.Column{
				{Key: "Codigo", Label: "Código", Kind: report.KindText, Width: 12},
				{Key: "Nombre", Label: "Nombre", Kind: report.KindText, Width: 42},
				{Key: "Tipo", Label: "Tipo", Kind: report.KindText, Width: 20},
				{Key: "TotalCriterios", Label: "Criterios", Kind: report.KindInteger, Width: 10},
				{Key: "Evaluados", Label: "Evaluados", Kind: report.KindInteger, Width: 10},
				{Key: "Porcentaje", Label: "% Cumplimiento", Kind: report.KindDecimal, Precision: 2, Width: 16},
				{Key: "Estado", Label: "Estado", Kind: report.KindText, Width: 14},
				{Key: "FechaCierre", Label: "Fecha de cierre", Kind: report.KindText, Width: 16},
			},
		}

		standards, _, err := s.hab.ListStandards(ctx, true, listAll, 0)
		if err != nil {
			return sec, err
		}

		var totalCriteria, totalEvaluated, assessed int
		var pctSum float64
		for _, std := range standards {
			criteria, err := s.hab.ListCriteria(ctx, std.ID)
			if err != nil {
				return sec, err
			}
			active := 0
			for _, c := range criteria {
				if c.Active {
					active++
				}
			}
			totalCriteria += active

			row := report.Row{Values: map[string]report.Value{
				"Codigo":         report.Text(std.Code),
				"Nombre":         report.Text(std.Name),
				"Tipo":           report.Text(std.Type),
				"TotalCriterios": report.Int(active),
				"Evaluados":      report.Int(0),
				"Porcentaje":     report.Float(0),
				"Estado":         report.Text("Sin Evaluar"),
			}}
			row.Bucket = report.BucketNotApplicable

			a, err := s.hab.LatestClosedAssessment(ctx, std.ID)
			switch {
			case err == nil:
				evs, err := s.hab.ListEvaluations(ctx, a.ID)
				if err != nil {
					return sec, err
				}
				totalEvaluated += len(evs)
				assessed++
				pctSum += a.CompliancePercentage

				row.Values["Evaluados"] = report.Int(len(evs))
				row.Values["Porcentaje"] = report.Float(a.CompliancePercentage)
				row.Values["Estado"] = report.Text("Cerrada")
				if a.ClosedAt != nil {
					row.Values["FechaCierre"] = report.Text(a.ClosedAt.UTC().Format("2006-01-02"))
				}
				row.Bucket = percentageBucket(a.CompliancePercentage, true)
			case errors.Is(err, habilitation.ErrNotFound):
				// no closed assessment yet, the default row stands
			default:
				return sec, err
			}

			sec.Rows = append(sec.Rows, row)
		}

		globalIndex := 0.0
		if len(standards) > 0 {
			// unweighted mean over every active standard, unassessed ones
			// counting as zero
			globalIndex = pctSum / float64(len(standards))
		}
		sec.Summary = []report.KV{
			{Key: "TotalEstandares", Value: fmt.Sprintf("%d", len(standards))},
			{Key: "EstandaresEvaluados", Value: fmt.Sprintf("%d", assessed)},
			{Key: "TotalCriterios", Value: fmt.Sprintf("%d", totalCriteria)},
			{Key: "CriteriosEvaluados", Value: fmt.Sprintf("%d", totalEvaluated)},
			{Key: "IndiceGlobal", Value: fmt.Sprintf("%.2f", globalIndex)},
		}

		r.Attestation = fmt.Sprintf(
			"En calidad de representante legal de %s, identificada con NIT %s y código de "+
				"habilitación %s, declaro bajo la gravedad de juramento que la autoevaluación de las "+
				"condiciones de habilitación aquí consignada refleja fielmente la verificación "+
				"realizada por la institución, con un índice global de cumplimiento del %.2f%%.",
			s.facility.FacilityName, s.facility.NIT, s.facility.FacilityCode, globalIndex)

		return sec, nil
	})

	return s.finish(r)
}

// BuildIndicatorSemiannualReport assembles the semester indicator report:
// per-period detail rows and a consolidated section with the pooled rollup
// per indicator.
func (s *Service) BuildIndicatorSemiannualReport(ctx context.Context, semester string) (*report.Report, error) {
	if _, err := indicator.SemesterPeriods(semester); err != nil {
		return nil, err
	}

	r := s.newReport(fmt.Sprintf("Reporte Semestral de Indicadores de Calidad %s", semester), "sic-semestral-v1")

	indicators, _, err := s.ind.ListIndicators(ctx, true, "", listAll, 0)
	if err != nil {
		return nil, fmt.Errorf("reporting: list indicators: %w", err)
	}

	measurementCols := []report.Column{
		{Key: "CodigoIndicador", Label: "Código", Kind: report.KindText, Width: 12},
		{Key: "NombreIndicador", Label: "Indicador", Kind: report.KindText, Width: 42},
		{Key: "Periodo", Label: "Periodo", Kind: report.KindText, Width: 10},
		{Key: "Numerador", Label: "Numerador", Kind: report.KindDecimal, Precision: 2, Width: 12},
		{Key: "Denominador", Label: "Denominador", Kind: report.KindDecimal, Precision: 2, Width: 12},
		{Key: "Resultado", Label: "Resultado", Kind: report.KindDecimal, Precision: 4, Width: 12},
		{Key: "Meta", Label: "Meta", Kind: report.KindDecimal, Precision: 4, Width: 10},
		{Key: "Semaforo", Label: "Semáforo", Kind: report.KindText, Width: 10},
	}
	consolidatedCols := []report.Column{
		{Key: "CodigoIndicador", Label: "Código", Kind: report.KindText, Width: 12},
		{Key: "NombreIndicador", Label: "Indicador", Kind: report.KindText, Width: 42},
		{Key: "Numerador", Label: "Numerador", Kind: report.KindDecimal, Precision: 2, Width: 12},
		{Key: "Denominador", Label: "Denominador", Kind: report.KindDecimal, Precision: 2, Width: 12},
		{Key: "Resultado", Label: "Resultado", Kind: report.KindDecimal, Precision: 4, Width: 12},
		{Key: "Meta", Label: "Meta", Kind: report.KindDecimal, Precision: 4, Width: 10},
		{Key: "Semaforo", Label: "Semáforo", Kind: report.KindText, Width: 10},
		{Key: "PeriodosReportados", Label: "Periodos", Kind: report.KindInteger, Width: 10},
	}

	s.addSection(r, "Mediciones", func() (report.Section, error) {
		sec := report.Section{ID: "Mediciones", ItemName: "Medicion", Title: "Mediciones del semestre", Columns: measurementCols}
		for _, ind := range indicators {
			ms, _, err := s.ind.SemesterMeasurements(ctx, ind.ID, semester)
			if err != nil {
				return sec, err
			}
			for _, m := range ms {
				values := map[string]report.Value{
					"CodigoIndicador": report.Text(ind.Code),
					"NombreIndicador": report.Text(ind.Name),
					"Periodo":         report.Text(m.Period),
					"Numerador":       report.Float(m.Numerator),
					"Denominador":     report.Float(m.Denominator),
					"Resultado":       report.Float(m.Ratio),
					"Semaforo":        report.Text(string(m.Semaphore)),
				}
				if m.AppliedTarget != nil {
					values["Meta"] = report.Float(*m.AppliedTarget)
				}
				sec.Rows = append(sec.Rows, report.Row{Values: values, Bucket: semaphoreBucket(m.Semaphore)})
			}
		}
		return sec, nil
	})

	s.addSection(r, "Consolidado", func() (report.Section, error) {
		sec := report.Section{ID: "Consolidado", ItemName: "Indicador", Title: "Consolidado del semestre", Columns: consolidatedCols}
		var green, yellow, red int
		for _, ind := range indicators {
			_, rollup, err := s.ind.SemesterMeasurements(ctx, ind.ID, semester)
			if err != nil {
				return sec, err
			}
			if rollup.Periods == 0 {
				continue
			}
			switch rollup.Semaphore {
			case indicator.SemaphoreGreen:
				green++
			case indicator.SemaphoreYellow:
				yellow++
			case indicator.SemaphoreRed:
				red++
			}

			values := map[string]report.Value{
				"CodigoIndicador":    report.Text(ind.Code),
				"NombreIndicador":    report.Text(ind.Name),
				"Numerador":          report.Float(rollup.Numerator),
				"Denominador":        report.Float(rollup.Denominator),
				"Resultado":          report.Float(rollup.Ratio),
				"Semaforo":           report.Text(string(rollup.Semaphore)),
				"PeriodosReportados": report.Int(rollup.Periods),
			}
			if t := ind.AppliedTarget(); t != nil {
				values["Meta"] = report.Float(*t)
			}
			sec.Rows = append(sec.Rows, report.Row{Values: values, Bucket: semaphoreBucket(rollup.Semaphore)})
		}
		sec.Summary = []report.KV{
			{Key: "Semestre", Value: semester},
			{Key: "IndicadoresReportados", Value: fmt.Sprintf("%d", len(sec.Rows))},
			{Key: "EnVerde", Value: fmt.Sprintf("%d", green)},
			{Key: "EnAmarillo", Value: fmt.Sprintf("%d", yellow)},
			{Key: "EnRojo", Value: fmt.Sprintf("%d", red)},
		}
		return sec, nil
	})

	return s.finish(r)
}

// BuildSurveillanceWeeklyReport assembles the weekly notification report:
// per-event counts and the full case line items for the epidemiological week.
func (s *Service) BuildSurveillanceWeeklyReport(ctx context.Context, week, year int) (*report.Report, error) {
	r := s.newReport(fmt.Sprintf("Notificación Semanal de Eventos - Semana %02d de %d", week, year), "sivigila-semanal-v1")

	items, counts, err := s.svl.WeeklyReport(ctx, week, year)
	if err != nil {
		return nil, err
	}

	s.addSection(r, "ResumenEventos", func() (report.Section, error) {
		sec := report.Section{
			ID:       "ResumenEventos",
			ItemName: "Evento",
			Title:    "Casos por evento",
			Columns: []report.Column{
				{Key: "CodigoEvento", Label: "Código", Kind: report.KindText, Width: 10},
				{Key: "NombreEvento", Label: "Evento", Kind: report.KindText, Width: 48},
				{Key: "Casos", Label: "Casos", Kind: report.KindInteger, Width: 8},
			},
			Summary: []report.KV{
				{Key: "Semana", Value: fmt.Sprintf("%02d", week)},
				{Key: "Anio", Value: fmt.Sprintf("%d", year)},
				{Key: "TotalCasos", Value: fmt.Sprintf("%d", len(items))},
			},
		}
		for _, c := range counts {
			sec.Rows = append(sec.Rows, report.Row{Values: map[string]report.Value{
				"CodigoEvento": report.Text(c.EventCode),
				"NombreEvento": report.Text(c.EventName),
				"Casos":        report.Int(c.Count),
			}})
		}
		return sec, nil
	})

	s.addSection(r, "Casos", func() (report.Section, error) {
		sec := report.Section{
			ID:       "Casos",
			ItemName: "Caso",
			Title:    "Detalle de casos",
			Columns: []report.Column{
				{Key: "CodigoEvento", Label: "Código", Kind: report.KindText, Width: 10},
				{Key: "NombreEvento", Label: "Evento", Kind: report.KindText, Width: 40},
				{Key: "Paciente", Label: "Paciente", Kind: report.KindText, Width: 16},
				{Key: "TipoNotificacion", Label: "Tipo", Kind: report.KindText, Width: 12},
				{Key: "FechaNotificacion", Label: "Fecha", Kind: report.KindText, Width: 12},
				{Key: "InicioSintomas", Label: "Inicio de síntomas", Kind: report.KindText, Width: 14},
				{Key: "ClasificacionInicial", Label: "Clasificación", Kind: report.KindText, Width: 16},
				{Key: "Hospitalizado", Label: "Hospitalizado", Kind: report.KindText, Width: 12},
			},
		}
		for _, n := range items {
			values := map[string]report.Value{
				"CodigoEvento":      report.Text(n.EventCode),
				"NombreEvento":      report.Text(n.EventName),
				"Paciente":          report.Text(n.PatientRef),
				"TipoNotificacion":  report.Text(string(n.NotificationType)),
				"FechaNotificacion": report.Text(n.NotifiedAt.UTC().Format("2006-01-02")),
				"Hospitalizado":     report.Text(boolSiNo(n.Hospitalized)),
			}
			if n.SymptomOnset != nil {
				values["InicioSintomas"] = report.Text(n.SymptomOnset.UTC().Format("2006-01-02"))
			}
			if n.InitialClass != nil {
				values["ClasificacionInicial"] = report.Text(*n.InitialClass)
			}
			bucket := report.BucketNone
			if n.NotificationType == surveillance.NotifyImmediate {
				bucket = report.BucketRed
			}
			sec.Rows = append(sec.Rows, report.Row{Values: values, Bucket: bucket})
		}
		return sec, nil
	})

	return s.finish(r)
}

// BuildVigilanceConsolidate assembles the monthly pharmacovigilance and
// technovigilance consolidate.
func (s *Service) BuildVigilanceConsolidate(ctx context.Context, year, month int) (*report.Report, error) {
	if year < 1900 || month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: invalid month %d/%d", surveillance.ErrValidation, month, year)
	}

	r := s.newReport(fmt.Sprintf("Consolidado de Vigilancia %04d-%02d", year, month), "invima-consolidado-v1")
	f := surveillance.VigilanceFilter{Year: year, Month: month}

	s.addSection(r, "Farmacovigilancia", func() (report.Section, error) {
		sec := report.Section{
			ID:       "Farmacovigilancia",
			ItemName: "Reporte",
			Title:    "Farmacovigilancia",
			Columns: []report.Column{
				{Key: "Paciente", Label: "Paciente", Kind: report.KindText, Width: 16},
				{Key: "Producto", Label: "Producto", Kind: report.KindText, Width: 24},
				{Key: "FechaEvento", Label: "Fecha", Kind: report.KindText, Width: 12},
				{Key: "Reaccion", Label: "Reacción", Kind: report.KindText, Width: 40},
				{Key: "Severidad", Label: "Severidad", Kind: report.KindText, Width: 12},
				{Key: "Causalidad", Label: "Causalidad", Kind: report.KindText, Width: 14},
				{Key: "Desenlace", Label: "Desenlace", Kind: report.KindText, Width: 16},
			},
		}
		items, total, err := s.svl.ListPharmaco(ctx, f, listAll, 0)
		if err != nil {
			return sec, err
		}
		for _, p := range items {
			values := map[string]report.Value{
				"Paciente":    report.Text(p.PatientRef),
				"Producto":    report.Text(p.ProductRef),
				"FechaEvento": report.Text(p.EventDate.UTC().Format("2006-01-02")),
				"Reaccion":    report.Text(p.ReactionDescription),
				"Severidad":   report.Text(string(p.Severity)),
			}
			if p.Causality != nil {
				values["Causalidad"] = report.Text(*p.Causality)
			}
			if p.Outcome != nil {
				values["Desenlace"] = report.Text(*p.Outcome)
			}
			sec.Rows = append(sec.Rows, report.Row{Values: values, Bucket: severityBucket(p.Severity)})
		}
		sec.Summary = []report.KV{{Key: "TotalReportes", Value: fmt.Sprintf("%d", total)}}
		return sec, nil
	})

	s.addSection(r, "Tecnovigilancia", func() (report.Section, error) {
		sec := report.Section{
			ID:       "Tecnovigilancia",
			ItemName: "Reporte",
			Title:    "Tecnovigilancia",
			Columns: []report.Column{
				{Key: "Dispositivo", Label: "Dispositivo", Kind: report.KindText, Width: 24},
				{Key: "Fabricante", Label: "Fabricante", Kind: report.KindText, Width: 20},
				{Key: "RegistroSanitario", Label: "Registro sanitario", Kind: report.KindText, Width: 18},
				{Key: "Lote", Label: "Lote", Kind: report.KindText, Width: 12},
				{Key: "FechaEvento", Label: "Fecha", Kind: report.KindText, Width: 12},
				{Key: "Incidente", Label: "Incidente", Kind: report.KindText, Width: 40},
				{Key: "Consecuencias", Label: "Consecuencias", Kind: report.KindText, Width: 24},
				{Key: "Severidad", Label: "Severidad", Kind: report.KindText, Width: 12},
			},
		}
		items, total, err := s.svl.ListTechno(ctx, f, listAll, 0)
		if err != nil {
			return sec, err
		}
		for _, tr := range items {
			values := map[string]report.Value{
				"Dispositivo": report.Text(tr.DeviceName),
				"FechaEvento": report.Text(tr.EventDate.UTC().Format("2006-01-02")),
				"Incidente":   report.Text(tr.IncidentDescription),
				"Severidad":   report.Text(string(tr.Severity)),
			}
			if tr.Manufacturer != nil {
				values["Fabricante"] = report.Text(*tr.Manufacturer)
			}
			if tr.SanitaryRegistration != nil {
				values["RegistroSanitario"] = report.Text(*tr.SanitaryRegistration)
			}
			if tr.Lot != nil {
				values["Lote"] = report.Text(*tr.Lot)
			}
			if tr.Consequences != nil {
				values["Consecuencias"] = report.Text(*tr.Consequences)
			}
			sec.Rows = append(sec.Rows, report.Row{Values: values, Bucket: severityBucket(tr.Severity)})
		}
		sec.Summary = []report.KV{{Key: "TotalReportes", Value: fmt.Sprintf("%d", total)}}
		return sec, nil
	})

	return s.finish(r)
}

func boolSiNo(b bool) string {
	if b {
		return "SI"
	}
	return "NO"
}
