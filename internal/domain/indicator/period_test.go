package indicator

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidPeriod(t *testing.T) {
	valid := []string{"2025-01", "2025-12", "1999-06"}
	for _, p := range valid {
		if !ValidPeriod(p) {
			t.Errorf("ValidPeriod(%q) = false, want true", p)
		}
	}

	invalid := []string{"", "2025", "2025-13", "2025-00", "2025-1", "25-01", "2025-S1", "2025-01-15", "abcd-ef"}
	for _, p := range invalid {
		if ValidPeriod(p) {
			t.Errorf("ValidPeriod(%q) = true, want false", p)
		}
	}
}

func TestSemesterPeriods(t *testing.T) {
	got, err := SemesterPeriods("2025-S1")
	if err != nil {
		t.Fatalf("SemesterPeriods: %v", err)
	}
	want := []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SemesterPeriods(2025-S1) = %v, want %v", got, want)
	}

	got, err = SemesterPeriods("2024-S2")
	if err != nil {
		t.Fatalf("SemesterPeriods: %v", err)
	}
	want = []string{"2024-07", "2024-08", "2024-09", "2024-10", "2024-11", "2024-12"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SemesterPeriods(2024-S2) = %v, want %v", got, want)
	}
}

func TestSemesterPeriodsRejectsBadLabels(t *testing.T) {
	for _, label := range []string{"", "2025", "2025-S3", "2025-S0", "2025-01", "S1-2025", "25-S1", "2025-s1"} {
		if _, err := SemesterPeriods(label); !errors.Is(err, ErrValidation) {
			t.Errorf("SemesterPeriods(%q) error = %v, want ErrValidation", label, err)
		}
	}
}
