package indicator

// Classify places a ratio on the semaphore relative to its target. The scale
// is achievement = ratio/target as a percentage: below 70 is red, below 90 is
// yellow, 90 and above is green. Without a target there is nothing to miss,
// so the measurement classifies green.
func Classify(ratio float64, target *float64) Semaphore {
	if target == nil || *target == 0 {
		return SemaphoreGreen
	}
	achievement := ratio / *target * 100
	switch {
	case achievement < 70:
		return SemaphoreRed
	case achievement < 90:
		return SemaphoreYellow
	default:
		return SemaphoreGreen
	}
}

// RollupResult is the consolidated view of several periods of one indicator.
type RollupResult struct {
	Numerator   float64   `json:"numerator"`
	Denominator float64   `json:"denominator"`
	Ratio       float64   `json:"ratio"`
	Semaphore   Semaphore `json:"semaphore"`
	Periods     int       `json:"periods"`
}

// Rollup consolidates measurements by pooling numerators and denominators
// before re-deriving the ratio, so periods with large denominators weigh
// proportionally. Averaging the per-period ratios instead would let a tiny
// month dominate the semester; the pooled ratio is the one that gets
// classified.
func Rollup(measurements []*Measurement, target *float64) RollupResult {
	var res RollupResult
	for _, m := range measurements {
		res.Numerator += m.Numerator
		res.Denominator += m.Denominator
		res.Periods++
	}
	if res.Denominator > 0 {
		res.Ratio = res.Numerator / res.Denominator
	}
	res.Semaphore = Classify(res.Ratio, target)
	return res
}
