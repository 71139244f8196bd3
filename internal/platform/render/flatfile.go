package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/clinicamia/compliance-api/internal/platform/report"
)

// FlatFileOptions selects the section and delimiter for a flat-file export.
type FlatFileOptions struct {
	// SectionID names the section to export; empty means the first section.
	// Flat files carry exactly one record layout, so one section per file.
	SectionID string
	// Delimiter separates fields; zero means '|'.
	Delimiter rune
}

// FlatFile renders one section as a delimited flat file: one line per row,
// fields in declared column order. Fields containing the delimiter or a quote
// are quoted with '"' and inner quotes doubled; line breaks inside values are
// normalized to a space so one record is always one physical line. Before
// returning, every emitted line is split back and its field count checked
// against the declared columns; a mismatch aborts the whole export.
func FlatFile(r *report.Report, opts FlatFileOptions) ([]byte, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = '|'
	}

	sec, err := pickSection(r, opts.SectionID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for i, row := range sec.Rows {
		fields := make([]string, len(sec.Columns))
		for j, col := range sec.Columns {
			fields[j] = escapeField(col.Format(row.Values[col.Key]), delim)
		}
		line := strings.Join(fields, string(delim))

		if got := len(SplitRecord(line, delim)); got != len(sec.Columns) {
			return nil, &FieldCountError{
				Section: sec.ID,
				Line:    i + 1,
				Want:    len(sec.Columns),
				Got:     got,
			}
		}

		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

func pickSection(r *report.Report, id string) (*report.Section, error) {
	if id == "" {
		if len(r.Sections) == 0 {
			return nil, fmt.Errorf("flat file render: report has no sections")
		}
		return &r.Sections[0], nil
	}
	sec := r.Section(id)
	if sec == nil {
		return nil, fmt.Errorf("flat file render: no section %q", id)
	}
	return sec, nil
}

// escapeField makes a value safe for a delimited line. Line breaks become
// spaces; values containing the delimiter or a quote are wrapped in quotes
// with inner quotes doubled.
func escapeField(v string, delim rune) string {
	v = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(v)
	if !strings.ContainsRune(v, delim) && !strings.Contains(v, `"`) {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// SplitRecord splits a flat-file line into its fields, honoring the quoting
// scheme used by FlatFile. It is the inverse of the escape step and is what
// the post-write verification runs.
func SplitRecord(line string, delim rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes && r == '"':
			if i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = false
			}
		case !inQuotes && r == '"' && cur.Len() == 0:
			inQuotes = true
		case !inQuotes && r == delim:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
