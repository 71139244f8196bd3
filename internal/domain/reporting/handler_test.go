package reporting

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicamia/compliance-api/internal/domain/surveillance"
	"github.com/clinicamia/compliance-api/internal/platform/report"
)

func newTestHandler(t *testing.T) (*echo.Echo, *Handler) {
	t.Helper()
	svc := newTestService(&fakeHab{}, &fakeInd{}, &fakeSvl{
		counts: []surveillance.EventCount{{EventCode: "210", EventName: "Dengue", Count: 1}},
	})
	e := echo.New()
	h := NewHandler(svc)
	h.RegisterRoutes(e.Group("/api/v1"))
	return e, h
}

func doRequest(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWeeklyReportJSONDefault(t *testing.T) {
	e, _ := newTestHandler(t)
	rec := doRequest(e, "/api/v1/reports/surveillance/weekly?week=25&year=2025")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var r report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if r.Header.SchemaID != "sivigila-semanal-v1" {
		t.Errorf("schema id = %s", r.Header.SchemaID)
	}
}

func TestWeeklyReportXMLFormat(t *testing.T) {
	e, _ := newTestHandler(t)
	rec := doRequest(e, "/api/v1/reports/surveillance/weekly?week=25&year=2025&format=xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<NotificacionSemanal") {
		t.Errorf("body missing root element: %s", body)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, ".xml") {
		t.Errorf("content disposition = %q", cd)
	}
}

func TestWeeklyReportFlatFormat(t *testing.T) {
	e, _ := newTestHandler(t)
	rec := doRequest(e, "/api/v1/reports/surveillance/weekly?week=25&year=2025&format=flat")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "210|Dengue|1") {
		t.Errorf("flat body = %q", rec.Body.String())
	}
}

func TestWeeklyReportUnknownFormat(t *testing.T) {
	e, _ := newTestHandler(t)
	rec := doRequest(e, "/api/v1/reports/surveillance/weekly?week=25&year=2025&format=docx")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWeeklyReportMissingParams(t *testing.T) {
	e, _ := newTestHandler(t)
	rec := doRequest(e, "/api/v1/reports/surveillance/weekly?year=2025")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestVigilanceConsolidateBadMonthHTTP(t *testing.T) {
	e, _ := newTestHandler(t)
	rec := doRequest(e, "/api/v1/reports/vigilance/consolidate?year=2025&month=13")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSemiannualBadSemesterHTTP(t *testing.T) {
	e, _ := newTestHandler(t)
	rec := doRequest(e, "/api/v1/reports/indicators/semiannual?semester=2025-S9")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
