// Package report defines the canonical in-memory report model produced by the
// aggregation layer and consumed by every renderer. Reports are built
// transiently per request and never persisted.
package report

import (
	"strconv"
	"time"
)

// Kind describes how a column's values are typed and formatted.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindDecimal
)

// Bucket classifies a row for conditional styling. Semaphore buckets come from
// indicator classification; verdict buckets from habilitation evaluations.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketGreen
	BucketYellow
	BucketRed
	BucketCompliant
	BucketPartial
	BucketNonCompliant
	BucketNotApplicable
)

// Column declares one field of a section: Key is the machine name used as the
// XML element name and flat-file position, Label the human header for
// spreadsheet and document output. Precision applies to decimal columns; Width
// is a spreadsheet column width hint (0 means default).
type Column struct {
	Key       string
	Label     string
	Kind      Kind
	Precision int
	Width     float64
}

// Value is a single cell. Either Text or Number is meaningful depending on the
// owning column's Kind; IsSet distinguishes an absent numeric value from zero.
type Value struct {
	Text   string
	Number float64
	IsSet  bool
}

// Text returns a text cell value.
func Text(s string) Value { return Value{Text: s, IsSet: s != ""} }

// Int returns an integer cell value.
func Int(n int) Value { return Value{Number: float64(n), IsSet: true} }

// Float returns a decimal cell value.
func Float(f float64) Value { return Value{Number: f, IsSet: true} }

// Format renders v according to the column's kind and precision. Unset values
// render as the empty string so layouts with mandatory fields stay aligned.
func (c Column) Format(v Value) string {
	if !v.IsSet {
		return ""
	}
	switch c.Kind {
	case KindInteger:
		return strconv.FormatInt(int64(v.Number), 10)
	case KindDecimal:
		return strconv.FormatFloat(v.Number, 'f', c.Precision, 64)
	default:
		return v.Text
	}
}

// Row is one record of a section keyed by column Key.
type Row struct {
	Values map[string]Value
	Bucket Bucket
}

// KV is a free-form key/value pair used by section summaries and narrative
// summary sheets.
type KV struct {
	Key   string
	Value string
}

// Section is an ordered table of rows under a title, with an optional
// free-form summary. ID doubles as the section's XML element name and
// ItemName as the per-row element name, so both must be valid XML names.
type Section struct {
	ID       string
	ItemName string
	Title    string
	Columns  []Column
	Rows     []Row
	Summary  []KV
}

// Header carries the reporting facility's identity and generation metadata.
// Every renderer emits it verbatim; regulators match reports to providers by
// these fields.
type Header struct {
	FacilityCode string
	FacilityName string
	NIT          string
	Address      string
	Municipality string
	Department   string
	LegalRep     string
	GeneratedAt  time.Time
	SchemaID     string
}

// Report is the format-agnostic result of an aggregation. Diagnostics carries
// one entry per section that failed to build and was skipped. Attestation,
// when set, is the sworn-statement paragraph declarations carry.
type Report struct {
	Title       string
	Header      Header
	Sections    []Section
	Attestation string
	Diagnostics []string
}

// Section returns the section with the given ID, or nil.
func (r *Report) Section(id string) *Section {
	for i := range r.Sections {
		if r.Sections[i].ID == id {
			return &r.Sections[i]
		}
	}
	return nil
}
