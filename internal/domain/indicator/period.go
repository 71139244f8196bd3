package indicator

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidPeriod reports whether p is a "YYYY-MM" month label with a real month.
func ValidPeriod(p string) bool {
	parts := strings.Split(p, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1900 {
		return false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	return true
}

// SemesterPeriods expands a "YYYY-S1" or "YYYY-S2" label into its six month
// labels. Anything else, including month labels and S3, is rejected.
func SemesterPeriods(semester string) ([]string, error) {
	parts := strings.Split(semester, "-S")
	if len(parts) != 2 || len(parts[0]) != 4 {
		return nil, fmt.Errorf("%w: invalid semester label %q", ErrValidation, semester)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1900 {
		return nil, fmt.Errorf("%w: invalid semester label %q", ErrValidation, semester)
	}

	var first int
	switch parts[1] {
	case "1":
		first = 1
	case "2":
		first = 7
	default:
		return nil, fmt.Errorf("%w: invalid semester label %q", ErrValidation, semester)
	}

	periods := make([]string, 6)
	for i := range periods {
		periods[i] = fmt.Sprintf("%04d-%02d", year, first+i)
	}
	return periods, nil
}
