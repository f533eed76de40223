// Package wellness reduces face-analysis results and habit logs to display
// data: a bounded wellness score and a list of rule-generated insights. All
// functions are pure; absent or malformed metrics degrade to "no penalty"
// rather than failing, since the provider's metric set varies.
package wellness

import "github.com/your-org/facewell/internal/models"

// Score deductions. Applied in a fixed order for reproducibility; the terms
// are additive so ordering does not change the result.
const (
	baseScore          = 100
	eyePouchPenalty    = 10
	darkCirclePenalty  = 10
	blackheadPenalty   = 5 // per severity level, 1-3
	wrinklePenalty     = 5
	crowsFeetPenalty   = 5
	acnePenaltyPerSpot = 2
	acnePenaltyCap     = 15
)

// Score maps an analysis result to a wellness score in [0, 100].
// Deterministic and side-effect free: identical input yields identical
// output.
func Score(result models.AnalysisResult) int {
	score := baseScore

	if result.Value(models.MetricEyePouch) == 1 {
		score -= eyePouchPenalty
	}
	if result.Value(models.MetricDarkCircle) > 0 {
		score -= darkCirclePenalty
	}
	if v := result.Value(models.MetricBlackhead); v > 0 {
		score -= blackheadPenalty * v
	}
	if result.Value(models.MetricForeheadWrinkle) == 1 {
		score -= wrinklePenalty
	}
	if result.Value(models.MetricCrowsFeet) == 1 {
		score -= crowsFeetPenalty
	}
	if n := result.RegionCount(models.MetricAcne); n > 0 {
		penalty := acnePenaltyPerSpot * n
		if penalty > acnePenaltyCap {
			penalty = acnePenaltyCap
		}
		score -= penalty
	}

	if score < 0 {
		score = 0
	}
	if score > baseScore {
		score = baseScore
	}
	return score
}
