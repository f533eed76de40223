package wellness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/facewell/internal/models"
)

func habits(mutate func(*models.HabitLog)) *models.HabitLog {
	// Baseline that trips no rule: enough sleep is offset by eye bags,
	// water and stress in the quiet zone, no exercise goal.
	h := &models.HabitLog{
		SleepHours:      7.5,
		WaterGlasses:    6,
		ExerciseMinutes: 0,
		StressLevel:     3,
	}
	if mutate != nil {
		mutate(h)
	}
	return h
}

func kinds(insights []models.Insight) []models.InsightKind {
	out := make([]models.InsightKind, 0, len(insights))
	for _, i := range insights {
		out = append(out, i.Kind)
	}
	return out
}

func TestBuildInsightsNilInputs(t *testing.T) {
	tests := []struct {
		name   string
		result models.AnalysisResult
		habits *models.HabitLog
	}{
		{"both nil", nil, nil},
		{"no analysis", nil, habits(nil)},
		{"no habits", models.AnalysisResult{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := BuildInsights(tt.result, tt.habits)
			require.Len(t, insights, 1)
			assert.Equal(t, models.InsightInfo, insights[0].Kind)
			assert.NotEmpty(t, insights[0].Message)
		})
	}
}

func TestShortSleepWithEyeBags(t *testing.T) {
	result := models.AnalysisResult{models.MetricEyePouch: metric(1)}
	insights := BuildInsights(result, habits(func(h *models.HabitLog) {
		h.SleepHours = 5
	}))

	require.Len(t, insights, 1)
	assert.Equal(t, models.InsightCorrelation, insights[0].Kind)
	assert.Equal(t, models.ConfidenceHigh, insights[0].Confidence)
}

func TestFullSleepNoEyeBags(t *testing.T) {
	result := models.AnalysisResult{models.MetricEyePouch: metric(0)}
	insights := BuildInsights(result, habits(func(h *models.HabitLog) {
		h.SleepHours = 8
	}))

	require.Len(t, insights, 1)
	assert.Equal(t, models.InsightPositive, insights[0].Kind)
	assert.Equal(t, models.ConfidenceHigh, insights[0].Confidence)
}

func TestDrySkinLowWater(t *testing.T) {
	result := models.AnalysisResult{models.MetricSkinType: metric(models.SkinTypeDry)}
	insights := BuildInsights(result, habits(func(h *models.HabitLog) {
		h.WaterGlasses = 3
	}))

	require.Len(t, insights, 1)
	assert.Equal(t, models.InsightCorrelation, insights[0].Kind)
	assert.Equal(t, models.ConfidenceMedium, insights[0].Confidence)
}

func TestDrySkinEnoughWaterIsQuiet(t *testing.T) {
	result := models.AnalysisResult{models.MetricSkinType: metric(models.SkinTypeDry)}
	insights := BuildInsights(result, habits(func(h *models.HabitLog) {
		h.WaterGlasses = 6 // not below the threshold
	}))

	require.Len(t, insights, 1)
	assert.Equal(t, models.InsightPositive, insights[0].Kind, "only the fallback should fire")
}

func TestHighStressForeheadLines(t *testing.T) {
	result := models.AnalysisResult{models.MetricForeheadWrinkle: metric(1)}
	insights := BuildInsights(result, habits(func(h *models.HabitLog) {
		h.StressLevel = 8
	}))

	require.Len(t, insights, 1)
	assert.Equal(t, models.InsightCorrelation, insights[0].Kind)
	assert.Equal(t, models.ConfidenceMedium, insights[0].Confidence)
}

func TestExerciseGoal(t *testing.T) {
	insights := BuildInsights(models.AnalysisResult{}, habits(func(h *models.HabitLog) {
		h.ExerciseMinutes = 30
	}))

	require.Len(t, insights, 1)
	assert.Equal(t, models.InsightPositive, insights[0].Kind)
	assert.Equal(t, models.ConfidenceHigh, insights[0].Confidence)
}

func TestAllRulesCanFireTogether(t *testing.T) {
	result := models.AnalysisResult{
		models.MetricEyePouch:        metric(1),
		models.MetricSkinType:        metric(models.SkinTypeDry),
		models.MetricForeheadWrinkle: metric(1),
	}
	insights := BuildInsights(result, habits(func(h *models.HabitLog) {
		h.SleepHours = 4
		h.WaterGlasses = 2
		h.StressLevel = 9
		h.ExerciseMinutes = 45
	}))

	assert.Equal(t, []models.InsightKind{
		models.InsightCorrelation,
		models.InsightCorrelation,
		models.InsightCorrelation,
		models.InsightPositive,
	}, kinds(insights))
}

func TestFallbackNeverEmpty(t *testing.T) {
	insights := BuildInsights(models.AnalysisResult{}, habits(nil))
	require.Len(t, insights, 1)
	assert.Equal(t, models.InsightPositive, insights[0].Kind)
	assert.Equal(t, models.ConfidenceMedium, insights[0].Confidence)
}
