package render

import (
	"strings"
	"testing"
	"time"

	"github.com/clinicamia/compliance-api/internal/platform/report"
)

func declarationFixture() *report.Report {
	return &report.Report{
		Title: "Declaración de Autoevaluación",
		Header: report.Header{
			FacilityCode: "110010000001",
			FacilityName: "Clínica Mía S.A.S.",
			NIT:          "900123456-7",
			Municipality: "Bogotá",
			Department:   "Cundinamarca",
			LegalRep:     "María Pérez",
			GeneratedAt:  time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
			SchemaID:     "reps-declaracion-v1",
		},
		Sections: []report.Section{
			{
				ID:       "Estandares",
				ItemName: "Estandar",
				Title:    "Estándares evaluados",
				Columns: []report.Column{
					{Key: "Codigo", Label: "Código", Kind: report.KindText},
					{Key: "Nombre", Label: "Nombre", Kind: report.KindText},
					{Key: "Porcentaje", Label: "% Cumplimiento", Kind: report.KindDecimal, Precision: 2},
				},
				Rows: []report.Row{
					{
						Values: map[string]report.Value{
							"Codigo":     report.Text("TH"),
							"Nombre":     report.Text("Talento Humano"),
							"Porcentaje": report.Float(58.333333),
						},
						Bucket: report.BucketPartial,
					},
					{
						Values: map[string]report.Value{
							"Codigo": report.Text("INF"),
							// Nombre deliberately unset
							"Porcentaje": report.Float(0),
						},
					},
				},
				Summary: []report.KV{{Key: "TotalEstandares", Value: "2"}},
			},
		},
	}
}

func TestXMLRendersNamespacedDocument(t *testing.T) {
	out, err := XML(declarationFixture(), XMLOptions{
		Root:      "DeclaracionAutoevaluacion",
		Namespace: "http://www.minsalud.gov.co/reps",
		Version:   "1.0",
	})
	if err != nil {
		t.Fatalf("XML() error: %v", err)
	}
	doc := string(out)

	if !strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing XML declaration, got prefix %q", doc[:40])
	}
	if !strings.Contains(doc, `<DeclaracionAutoevaluacion xmlns="http://www.minsalud.gov.co/reps" version="1.0">`) {
		t.Errorf("missing namespaced root element:\n%s", doc)
	}
	for _, want := range []string{
		"<CodigoHabilitacion>110010000001</CodigoHabilitacion>",
		"<RazonSocial>Clínica Mía S.A.S.</RazonSocial>",
		"<FechaGeneracion>2025-07-01T12:00:00Z</FechaGeneracion>",
		"<Porcentaje>58.33</Porcentaje>",
		"<TotalEstandares>2</TotalEstandares>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("output missing %q:\n%s", want, doc)
		}
	}
}

func TestXMLEmitsEmptyElementsForUnsetValues(t *testing.T) {
	out, err := XML(declarationFixture(), XMLOptions{Root: "Doc", Namespace: "urn:x", Version: "1.0"})
	if err != nil {
		t.Fatalf("XML() error: %v", err)
	}
	doc := string(out)

	// The second row has no Nombre; the element must still be present.
	if got := strings.Count(doc, "<Nombre>"); got != 2 {
		t.Errorf("expected 2 Nombre elements, got %d:\n%s", got, doc)
	}
	if !strings.Contains(doc, "<Nombre></Nombre>") {
		t.Errorf("unset value not emitted as empty element:\n%s", doc)
	}
	// Facility address was empty and must still appear.
	if !strings.Contains(doc, "<Direccion></Direccion>") {
		t.Errorf("empty header field dropped:\n%s", doc)
	}
}

func TestXMLIsIndented(t *testing.T) {
	out, err := XML(declarationFixture(), XMLOptions{Root: "Doc", Namespace: "urn:x", Version: "1.0"})
	if err != nil {
		t.Fatalf("XML() error: %v", err)
	}
	if !strings.Contains(string(out), "\n  <Prestador>") {
		t.Errorf("expected two-space indentation:\n%s", out)
	}
	if !strings.Contains(string(out), "\n      <Codigo>") {
		t.Errorf("expected nested indentation for row fields:\n%s", out)
	}
}

func TestXMLRequiresRoot(t *testing.T) {
	if _, err := XML(declarationFixture(), XMLOptions{}); err == nil {
		t.Fatal("expected error for missing root element name")
	}
}
