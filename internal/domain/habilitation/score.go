package habilitation

import "github.com/google/uuid"

// verdictFactor maps a verdict to its score contribution. Not-applicable
// scores zero while its criterion weight stays in the denominator, matching
// how the quality office has historically computed the figure.
func verdictFactor(v Verdict) float64 {
	switch v {
	case VerdictCompliant:
		return 1
	case VerdictPartiallyCompliant:
		return 0.5
	default:
		return 0
	}
}

// Score computes the weighted compliance percentage of a standard:
// sum(weight * factor) over the recorded evaluations divided by the summed
// weight of every active criterion, times 100. Criteria without an evaluation
// contribute weight but no score. A standard whose active criteria carry no
// weight scores 0, never NaN.
func Score(criteria []*Criterion, evaluations []*CriterionEvaluation) float64 {
	weights := make(map[uuid.UUID]float64, len(criteria))
	var totalWeight float64
	for _, c := range criteria {
		if !c.Active {
			continue
		}
		weights[c.ID] = c.Weight
		totalWeight += c.Weight
	}
	if totalWeight == 0 {
		return 0
	}

	var earned float64
	for _, e := range evaluations {
		w, ok := weights[e.CriterionID]
		if !ok {
			continue
		}
		earned += w * verdictFactor(e.Verdict)
	}

	return earned / totalWeight * 100
}
