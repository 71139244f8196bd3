package render

import "github.com/clinicamia/compliance-api/internal/platform/report"

// paletteEntry pairs a cell fill with a readable font color, both as RRGGBB.
type paletteEntry struct {
	Fill string
	Font string
}

// palette is the single source of styling truth for row buckets. The
// spreadsheet and document renderers both read from it so a classification
// can never show two different colors across formats.
var palette = map[report.Bucket]paletteEntry{
	report.BucketGreen:         {Fill: "28A745", Font: "FFFFFF"},
	report.BucketYellow:        {Fill: "FFC107", Font: "212529"},
	report.BucketRed:           {Fill: "DC3545", Font: "FFFFFF"},
	report.BucketCompliant:     {Fill: "28A745", Font: "FFFFFF"},
	report.BucketPartial:       {Fill: "FFC107", Font: "212529"},
	report.BucketNonCompliant:  {Fill: "DC3545", Font: "FFFFFF"},
	report.BucketNotApplicable: {Fill: "6C757D", Font: "FFFFFF"},
}

// headerStyle is the fixed style for table header rows across formats.
var headerStyle = paletteEntry{Fill: "1A3A52", Font: "FFFFFF"}

// bucketStyle returns the style for a bucket and whether one is defined.
// BucketNone has no style; rows stay on the default background.
func bucketStyle(b report.Bucket) (paletteEntry, bool) {
	e, ok := palette[b]
	return e, ok
}
