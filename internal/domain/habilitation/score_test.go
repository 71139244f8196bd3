package habilitation

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func crit(id uuid.UUID, weight float64) *Criterion {
	return &Criterion{ID: id, Weight: weight, Active: true}
}

func eval(criterionID uuid.UUID, v Verdict) *CriterionEvaluation {
	return &CriterionEvaluation{CriterionID: criterionID, Verdict: v}
}

func TestScoreWeighted(t *testing.T) {
	c1, c2, c3 := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name        string
		criteria    []*Criterion
		evaluations []*CriterionEvaluation
		want        float64
	}{
		{
			name:     "mixed verdicts weighted",
			criteria: []*Criterion{crit(c1, 2), crit(c2, 3), crit(c3, 1)},
			evaluations: []*CriterionEvaluation{
				eval(c1, VerdictCompliant),
				eval(c2, VerdictPartiallyCompliant),
				eval(c3, VerdictNonCompliant),
			},
			want: 58.333333,
		},
		{
			name:     "all compliant",
			criteria: []*Criterion{crit(c1, 2), crit(c2, 3)},
			evaluations: []*CriterionEvaluation{
				eval(c1, VerdictCompliant),
				eval(c2, VerdictCompliant),
			},
			want: 100,
		},
		{
			name:     "not applicable keeps denominator weight",
			criteria: []*Criterion{crit(c1, 1), crit(c2, 1)},
			evaluations: []*CriterionEvaluation{
				eval(c1, VerdictCompliant),
				eval(c2, VerdictNotApplicable),
			},
			want: 50,
		},
		{
			name:     "unevaluated criterion weighs against the score",
			criteria: []*Criterion{crit(c1, 1), crit(c2, 1)},
			evaluations: []*CriterionEvaluation{
				eval(c1, VerdictCompliant),
			},
			want: 50,
		},
		{
			name:        "no criteria scores zero not NaN",
			criteria:    nil,
			evaluations: nil,
			want:        0,
		},
		{
			name:     "inactive criteria are excluded",
			criteria: []*Criterion{crit(c1, 2), {ID: c2, Weight: 98, Active: false}},
			evaluations: []*CriterionEvaluation{
				eval(c1, VerdictCompliant),
				eval(c2, VerdictNonCompliant),
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.criteria, tt.evaluations)
			if math.IsNaN(got) {
				t.Fatal("Score() returned NaN")
			}
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("Score() = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestScoreIgnoresForeignEvaluations(t *testing.T) {
	c1 := uuid.New()
	got := Score(
		[]*Criterion{crit(c1, 5)},
		[]*CriterionEvaluation{eval(c1, VerdictNonCompliant), eval(uuid.New(), VerdictCompliant)},
	)
	if got != 0 {
		t.Errorf("Score() = %f, want 0: evaluation of unknown criterion must not count", got)
	}
}
