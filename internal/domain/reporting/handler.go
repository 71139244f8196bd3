package reporting

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicamia/compliance-api/internal/domain/indicator"
	"github.com/clinicamia/compliance-api/internal/domain/surveillance"
	"github.com/clinicamia/compliance-api/internal/platform/render"
	"github.com/clinicamia/compliance-api/internal/platform/report"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports/compliance-declaration", h.ComplianceDeclaration)
	api.GET("/reports/indicators/semiannual", h.IndicatorSemiannual)
	api.GET("/reports/surveillance/weekly", h.SurveillanceWeekly)
	api.GET("/reports/vigilance/consolidate", h.VigilanceConsolidate)
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, indicator.ErrValidation), errors.Is(err, surveillance.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmptyReport):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ComplianceDeclaration(c echo.Context) error {
	r, err := h.svc.BuildComplianceDeclaration(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return respond(c, r, render.XMLOptions{
		Root:      "DeclaracionAutoevaluacion",
		Namespace: "http://clinicamia.co/esquemas/reps/declaracion",
		Version:   "1.0",
	})
}

func (h *Handler) IndicatorSemiannual(c echo.Context) error {
	semester := c.QueryParam("semester")
	r, err := h.svc.BuildIndicatorSemiannualReport(c.Request().Context(), semester)
	if err != nil {
		return httpError(err)
	}
	return respond(c, r, render.XMLOptions{
		Root:      "ReporteIndicadores",
		Namespace: "http://clinicamia.co/esquemas/sic/semestral",
		Version:   "1.0",
	})
}

func (h *Handler) SurveillanceWeekly(c echo.Context) error {
	week, err := strconv.Atoi(c.QueryParam("week"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid week")
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	r, err := h.svc.BuildSurveillanceWeeklyReport(c.Request().Context(), week, year)
	if err != nil {
		return httpError(err)
	}
	return respond(c, r, render.XMLOptions{
		Root:      "NotificacionSemanal",
		Namespace: "http://clinicamia.co/esquemas/sivigila/semanal",
		Version:   "1.0",
	})
}

func (h *Handler) VigilanceConsolidate(c echo.Context) error {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid month")
	}
	r, err := h.svc.BuildVigilanceConsolidate(c.Request().Context(), year, month)
	if err != nil {
		return httpError(err)
	}
	return respond(c, r, render.XMLOptions{
		Root:      "ConsolidadoVigilancia",
		Namespace: "http://clinicamia.co/esquemas/invima/consolidado",
		Version:   "1.0",
	})
}

// respond renders the report in the format the ?format query selects. JSON is
// the default; xml, flat, xlsx and pdf stream a downloadable attachment.
func respond(c echo.Context, r *report.Report, xmlOpts render.XMLOptions) error {
	name := fmt.Sprintf("%s-%s", r.Header.SchemaID, r.Header.GeneratedAt.UTC().Format("20060102"))

	switch format := c.QueryParam("format"); format {
	case "", "json":
		return c.JSON(http.StatusOK, r)
	case "xml":
		out, err := render.XML(r, xmlOpts)
		if err != nil {
			return httpError(err)
		}
		return attachment(c, out, echo.MIMEApplicationXMLCharsetUTF8, name+".xml")
	case "flat":
		out, err := render.FlatFile(r, render.FlatFileOptions{})
		if err != nil {
			return httpError(err)
		}
		return attachment(c, out, "text/plain; charset=utf-8", name+".txt")
	case "xlsx":
		out, err := render.Workbook(r)
		if err != nil {
			return httpError(err)
		}
		return attachment(c, out, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", name+".xlsx")
	case "pdf":
		out, err := render.Document(r, render.DocumentOptions{})
		if err != nil {
			return httpError(err)
		}
		return attachment(c, out, "application/pdf", name+".pdf")
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
	}
}

func attachment(c echo.Context, body []byte, contentType, filename string) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set("X-Generated-At", time.Now().UTC().Format(time.RFC3339))
	return c.Blob(http.StatusOK, contentType, body)
}
