// Package render turns canonical reports into the exact byte layouts the
// regulatory platforms ingest: namespaced XML, delimited flat files, styled
// workbooks and paginated PDF declarations. Every renderer is a pure
// transform from report to bytes; none touches storage or mutates its input.
package render

import "fmt"

// FieldCountError reports a flat-file line that would not split back into the
// declared number of fields. It is fatal: a misaligned line would silently
// corrupt every downstream column, so no partial output is returned.
type FieldCountError struct {
	Section string
	Line    int
	Want    int
	Got     int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("flat file section %s line %d: %d fields, want %d", e.Section, e.Line, e.Got, e.Want)
}
