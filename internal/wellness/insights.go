package wellness

import "github.com/your-org/facewell/internal/models"

// Habit thresholds for the correlation rules. Empirical constants carried
// over unchanged.
const (
	lowSleepHours    = 7
	highSleepHours   = 8
	lowWaterGlasses  = 6
	highStressLevel  = 6
	exerciseGoalMins = 30
)

// BuildInsights evaluates the fixed rule set against an analysis result and
// a habit log. Either input may be nil, in which case a single info insight
// inviting the missing data is returned. Every applicable rule fires (this
// is not first-match-wins); when none fires the fallback guarantees a
// non-empty result.
func BuildInsights(result models.AnalysisResult, habits *models.HabitLog) []models.Insight {
	if result == nil || habits == nil {
		return []models.Insight{missingDataInsight(result, habits)}
	}

	var insights []models.Insight

	if habits.SleepHours < lowSleepHours && result.Value(models.MetricEyePouch) == 1 {
		insights = append(insights, models.Insight{
			Kind:       models.InsightCorrelation,
			Message:    "You slept less than 7 hours and eye bags are visible today. Short sleep often shows up under the eyes first.",
			Confidence: models.ConfidenceHigh,
		})
	}

	if habits.SleepHours >= highSleepHours && result.Value(models.MetricEyePouch) == 0 {
		insights = append(insights, models.Insight{
			Kind:       models.InsightPositive,
			Message:    "A full night's sleep and no eye bags detected. Keep that rhythm going.",
			Confidence: models.ConfidenceHigh,
		})
	}

	if habits.WaterGlasses < lowWaterGlasses && result.Value(models.MetricSkinType) == models.SkinTypeDry {
		insights = append(insights, models.Insight{
			Kind:       models.InsightCorrelation,
			Message:    "Your skin reads as dry and you logged under 6 glasses of water. Hydration may help.",
			Confidence: models.ConfidenceMedium,
		})
	}

	if habits.StressLevel > highStressLevel && result.Value(models.MetricForeheadWrinkle) == 1 {
		insights = append(insights, models.Insight{
			Kind:       models.InsightCorrelation,
			Message:    "High stress and forehead lines showed up together today. Stress tension often settles in the forehead.",
			Confidence: models.ConfidenceMedium,
		})
	}

	if habits.ExerciseMinutes >= exerciseGoalMins {
		insights = append(insights, models.Insight{
			Kind:       models.InsightPositive,
			Message:    "You hit 30+ minutes of exercise. Circulation boosts tend to show in skin tone over time.",
			Confidence: models.ConfidenceHigh,
		})
	}

	if len(insights) == 0 {
		insights = append(insights, models.Insight{
			Kind:       models.InsightPositive,
			Message:    "Your habits look balanced today. Keep logging to surface longer-term patterns.",
			Confidence: models.ConfidenceMedium,
		})
	}

	return insights
}

func missingDataInsight(result models.AnalysisResult, habits *models.HabitLog) models.Insight {
	switch {
	case result == nil && habits == nil:
		return models.Insight{
			Kind:    models.InsightInfo,
			Message: "Take a selfie and log today's habits to start seeing correlations.",
		}
	case result == nil:
		return models.Insight{
			Kind:    models.InsightInfo,
			Message: "Take today's selfie to pair your habit log with a face analysis.",
		}
	default:
		return models.Insight{
			Kind:    models.InsightInfo,
			Message: "Log today's habits to see how they correlate with your analysis.",
		}
	}
}
