package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/clinicamia/compliance-api/internal/platform/report"
)

// Workbook renders the report as an XLSX workbook: a summary sheet with the
// facility block and each section's key/value summary, then one data sheet
// per section with a styled header row and bucket-colored data rows.
func Workbook(r *report.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, fmt.Errorf("workbook render: %w", err)
	}

	const summarySheet = "Resumen"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("workbook render: %w", err)
	}
	if err := writeSummarySheet(f, summarySheet, r, styles); err != nil {
		return nil, fmt.Errorf("workbook render: %w", err)
	}

	for i := range r.Sections {
		sec := &r.Sections[i]
		name := sheetName(sec.Title, i)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("workbook render sheet %s: %w", name, err)
		}
		if err := writeSectionSheet(f, name, sec, styles); err != nil {
			return nil, fmt.Errorf("workbook render sheet %s: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("workbook render: %w", err)
	}
	return buf.Bytes(), nil
}

type workbookStyles struct {
	header   int
	title    int
	buckets  map[report.Bucket]int
	decimals map[int]int // precision -> style
}

func newWorkbookStyles(f *excelize.File) (*workbookStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: headerStyle.Font},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerStyle.Fill}},
	})
	if err != nil {
		return nil, err
	}

	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, err
	}

	s := &workbookStyles{
		header:   header,
		title:    title,
		buckets:  make(map[report.Bucket]int),
		decimals: make(map[int]int),
	}
	for bucket, entry := range palette {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Color: entry.Font},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{entry.Fill}},
		})
		if err != nil {
			return nil, err
		}
		s.buckets[bucket] = id
	}
	return s, nil
}

func (s *workbookStyles) decimal(f *excelize.File, precision int) (int, error) {
	if id, ok := s.decimals[precision]; ok {
		return id, nil
	}
	format := "0"
	if precision > 0 {
		format = "0." + strings.Repeat("0", precision)
	}
	id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return 0, err
	}
	s.decimals[precision] = id
	return id, nil
}

func writeSummarySheet(f *excelize.File, sheet string, r *report.Report, styles *workbookStyles) error {
	row := 1
	setKV := func(k, v string) error {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), k); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), v); err != nil {
			return err
		}
		row++
		return nil
	}

	if err := f.SetCellValue(sheet, "A1", r.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", styles.title); err != nil {
		return err
	}
	row = 3

	h := r.Header
	headerKVs := []report.KV{
		{Key: "Código de habilitación", Value: h.FacilityCode},
		{Key: "Razón social", Value: h.FacilityName},
		{Key: "NIT", Value: h.NIT},
		{Key: "Dirección", Value: h.Address},
		{Key: "Municipio", Value: h.Municipality},
		{Key: "Departamento", Value: h.Department},
		{Key: "Representante legal", Value: h.LegalRep},
		{Key: "Generado", Value: h.GeneratedAt.UTC().Format(time.RFC3339)},
	}
	for _, kv := range headerKVs {
		if err := setKV(kv.Key, kv.Value); err != nil {
			return err
		}
	}

	for i := range r.Sections {
		sec := &r.Sections[i]
		if len(sec.Summary) == 0 {
			continue
		}
		row++
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sec.Title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.header); err != nil {
			return err
		}
		row++
		for _, kv := range sec.Summary {
			if err := setKV(kv.Key, kv.Value); err != nil {
				return err
			}
		}
	}

	if r.Attestation != "" {
		row++
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Declaración"); err != nil {
			return err
		}
		row++
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Attestation); err != nil {
			return err
		}
		row++
	}

	for i, d := range r.Diagnostics {
		if i == 0 {
			row++
			if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Advertencias"); err != nil {
				return err
			}
			row++
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d); err != nil {
			return err
		}
		row++
	}

	return f.SetColWidth(sheet, "A", "A", 32)
}

func writeSectionSheet(f *excelize.File, sheet string, sec *report.Section, styles *workbookStyles) error {
	for j, col := range sec.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Label); err != nil {
			return err
		}
		if col.Width > 0 {
			name, err := excelize.ColumnNumberToName(j + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
				return err
			}
		}
	}
	if len(sec.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(sec.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, styles.header); err != nil {
			return err
		}
	}

	for i, row := range sec.Rows {
		for j, col := range sec.Columns {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			v := row.Values[col.Key]
			switch {
			case !v.IsSet:
				// leave the cell empty
			case col.Kind == report.KindInteger:
				if err := f.SetCellValue(sheet, cell, int64(v.Number)); err != nil {
					return err
				}
			case col.Kind == report.KindDecimal:
				if err := f.SetCellValue(sheet, cell, v.Number); err != nil {
					return err
				}
				id, err := styles.decimal(f, col.Precision)
				if err != nil {
					return err
				}
				if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
					return err
				}
			default:
				if err := f.SetCellValue(sheet, cell, v.Text); err != nil {
					return err
				}
			}
		}

		if id, ok := styles.buckets[row.Bucket]; ok && len(sec.Columns) > 0 {
			first, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			last, err := excelize.CoordinatesToCellName(len(sec.Columns), i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, first, last, id); err != nil {
				return err
			}
		}
	}

	return nil
}

// sheetName makes a title safe as an XLSX sheet name: forbidden characters
// replaced, at most 31 characters, never empty.
func sheetName(title string, index int) string {
	name := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ").Replace(title)
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Seccion%d", index+1)
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}
