package render

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/clinicamia/compliance-api/internal/platform/report"
)

// DocumentOptions tunes the PDF declaration layout.
type DocumentOptions struct {
	// RowsPerPage is the table-row budget per page; zero means 28.
	RowsPerPage int
}

const (
	pageWidth  = 210.0
	marginX    = 12.0
	tableWidth = pageWidth - 2*marginX
	rowHeight  = 7.0
)

// Document renders the report as a paginated PDF: a title header with the
// facility block, each section as a table re-drawing its header row on every
// page break, and an attestation plus signature block at the end.
func Document(r *report.Report, opts DocumentOptions) ([]byte, error) {
	rowsPerPage := opts.RowsPerPage
	if rowsPerPage <= 0 {
		rowsPerPage = 28
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginX, 14, marginX)
	pdf.SetAutoPageBreak(false, 14)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(108, 117, 125)
		pdf.CellFormat(0, 6, fmt.Sprintf("Página %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	writeDocumentHeader(pdf, tr, r)

	for i := range r.Sections {
		writeSectionTable(pdf, tr, &r.Sections[i], rowsPerPage)
	}

	if len(r.Diagnostics) > 0 {
		writeDiagnostics(pdf, tr, r.Diagnostics)
	}

	if r.Attestation != "" {
		writeAttestation(pdf, tr, r.Header, r.Attestation)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("document render: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDocumentHeader(pdf *fpdf.Fpdf, tr func(string) string, r *report.Report) {
	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(26, 58, 82)
	pdf.CellFormat(0, 9, tr(r.Title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	h := r.Header
	lines := []report.KV{
		{Key: "Código de habilitación", Value: h.FacilityCode},
		{Key: "Razón social", Value: h.FacilityName},
		{Key: "NIT", Value: h.NIT},
		{Key: "Dirección", Value: h.Address},
		{Key: "Municipio", Value: h.Municipality + ", " + h.Department},
		{Key: "Fecha de generación", Value: h.GeneratedAt.UTC().Format(time.RFC3339)},
	}
	pdf.SetTextColor(33, 37, 41)
	for _, kv := range lines {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(52, 6, tr(kv.Key), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, tr(kv.Value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func writeSectionTable(pdf *fpdf.Fpdf, tr func(string) string, sec *report.Section, rowsPerPage int) {
	widths := columnWidths(sec.Columns)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(26, 58, 82)
	pdf.CellFormat(0, 8, tr(sec.Title), "", 1, "L", false, 0, "")

	drawHeader := func() {
		fr, fg, fb := hexRGB(headerStyle.Fill)
		tR, tG, tB := hexRGB(headerStyle.Font)
		pdf.SetFillColor(fr, fg, fb)
		pdf.SetTextColor(tR, tG, tB)
		pdf.SetFont("Helvetica", "B", 8)
		for j, col := range sec.Columns {
			pdf.CellFormat(widths[j], rowHeight, tr(col.Label), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	drawHeader()

	rowsOnPage := 0
	for _, row := range sec.Rows {
		if rowsOnPage >= rowsPerPage {
			pdf.AddPage()
			drawHeader()
			rowsOnPage = 0
		}

		fill := false
		pdf.SetTextColor(33, 37, 41)
		if entry, ok := bucketStyle(row.Bucket); ok {
			fr, fg, fb := hexRGB(entry.Fill)
			tR, tG, tB := hexRGB(entry.Font)
			pdf.SetFillColor(fr, fg, fb)
			pdf.SetTextColor(tR, tG, tB)
			fill = true
		}

		pdf.SetFont("Helvetica", "", 8)
		for j, col := range sec.Columns {
			align := "L"
			if col.Kind != report.KindText {
				align = "R"
			}
			pdf.CellFormat(widths[j], rowHeight, tr(col.Format(row.Values[col.Key])), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
		rowsOnPage++
	}

	if len(sec.Summary) > 0 {
		pdf.Ln(2)
		pdf.SetTextColor(33, 37, 41)
		for _, kv := range sec.Summary {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(70, 6, tr(kv.Key), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(0, 6, tr(kv.Value), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)
}

func writeDiagnostics(pdf *fpdf.Fpdf, tr func(string) string, diagnostics []string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(220, 53, 69)
	pdf.CellFormat(0, 7, tr("Advertencias"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(33, 37, 41)
	for _, d := range diagnostics {
		pdf.MultiCell(0, 5, tr("- "+d), "", "L", false)
	}
	pdf.Ln(4)
}

func writeAttestation(pdf *fpdf.Fpdf, tr func(string) string, h report.Header, text string) {
	if pdf.GetY() > 200 {
		pdf.AddPage()
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(26, 58, 82)
	pdf.CellFormat(0, 8, tr("Declaración"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(33, 37, 41)
	pdf.MultiCell(0, 5, tr(text), "", "J", false)
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(90, 6, "________________________________", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 6, tr(h.LegalRep), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(90, 6, tr("Representante legal"), "", 1, "L", false, 0, "")
}

// columnWidths distributes the table width across columns proportionally to
// their Width hints, equally when no hints are set.
func columnWidths(cols []report.Column) []float64 {
	widths := make([]float64, len(cols))
	if len(cols) == 0 {
		return widths
	}

	total := 0.0
	for _, c := range cols {
		total += c.Width
	}
	if total == 0 {
		for i := range widths {
			widths[i] = tableWidth / float64(len(cols))
		}
		return widths
	}
	for i, c := range cols {
		w := c.Width
		if w == 0 {
			w = total / float64(len(cols))
		}
		widths[i] = w
	}
	// renormalize to the printable width
	sum := 0.0
	for _, w := range widths {
		sum += w
	}
	for i := range widths {
		widths[i] = widths[i] / sum * tableWidth
	}
	return widths
}

// hexRGB parses an RRGGBB color into components. Palette entries are
// compile-time constants, so parse failures simply yield black.
func hexRGB(hex string) (int, int, int) {
	if len(hex) != 6 {
		return 0, 0, 0
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(n >> 16 & 0xFF), int(n >> 8 & 0xFF), int(n & 0xFF)
}
