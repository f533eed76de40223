package wellness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/facewell/internal/models"
)

func metric(v int) models.Metric {
	return models.Metric{Value: v}
}

func acneRegions(n int) models.Metric {
	return models.Metric{Rectangle: make([]models.Region, n)}
}

func TestScoreEmptyResult(t *testing.T) {
	assert.Equal(t, 100, Score(models.AnalysisResult{}))
	assert.Equal(t, 100, Score(nil))
}

func TestScoreComposite(t *testing.T) {
	// eye pouch -10, dark circle -10, blackhead 2 -> -10, forehead
	// wrinkle -5, crow's feet -5, 10 acne spots capped at -15; skin_age
	// and skin_type never deduct. 100 - 55 = 45.
	result := models.AnalysisResult{
		models.MetricEyePouch:        metric(1),
		models.MetricDarkCircle:      metric(2),
		models.MetricBlackhead:       metric(2),
		models.MetricForeheadWrinkle: metric(1),
		models.MetricCrowsFeet:       metric(1),
		models.MetricAcne:            acneRegions(10),
		models.MetricSkinAge:         metric(31),
		models.MetricSkinType:        metric(models.SkinTypeDry),
	}
	assert.Equal(t, 45, Score(result))
}

func TestScoreReferenceExample(t *testing.T) {
	result := models.AnalysisResult{
		models.MetricEyePouch:        metric(1),
		models.MetricDarkCircle:      metric(2),
		models.MetricBlackhead:       metric(3),
		models.MetricForeheadWrinkle: metric(1),
		models.MetricCrowsFeet:       metric(1),
		models.MetricAcne:            acneRegions(8),
	}
	// 100 - 10 - 10 - 15 - 5 - 5 - 15 = 40
	assert.Equal(t, 40, Score(result))
}

func TestScoreSinglePenalties(t *testing.T) {
	tests := []struct {
		name   string
		result models.AnalysisResult
		want   int
	}{
		{"eye pouch", models.AnalysisResult{models.MetricEyePouch: metric(1)}, 90},
		{"eye pouch absent value zero", models.AnalysisResult{models.MetricEyePouch: metric(0)}, 100},
		{"dark circle mild", models.AnalysisResult{models.MetricDarkCircle: metric(1)}, 90},
		{"dark circle severe same penalty", models.AnalysisResult{models.MetricDarkCircle: metric(3)}, 90},
		{"blackhead scales with severity", models.AnalysisResult{models.MetricBlackhead: metric(3)}, 85},
		{"forehead wrinkle", models.AnalysisResult{models.MetricForeheadWrinkle: metric(1)}, 95},
		{"crows feet", models.AnalysisResult{models.MetricCrowsFeet: metric(1)}, 95},
		{"one acne spot", models.AnalysisResult{models.MetricAcne: acneRegions(1)}, 98},
		{"acne capped", models.AnalysisResult{models.MetricAcne: acneRegions(50)}, 85},
		{"acne value without regions is free", models.AnalysisResult{models.MetricAcne: metric(1)}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.result))
		})
	}
}

func TestScoreNeverNegative(t *testing.T) {
	// Stack every penalty with an absurd blackhead severity; the result
	// must clamp at zero.
	result := models.AnalysisResult{
		models.MetricEyePouch:        metric(1),
		models.MetricDarkCircle:      metric(3),
		models.MetricBlackhead:       metric(20),
		models.MetricForeheadWrinkle: metric(1),
		models.MetricCrowsFeet:       metric(1),
		models.MetricAcne:            acneRegions(100),
	}
	assert.Equal(t, 0, Score(result))
}

func TestScoreDeterministic(t *testing.T) {
	result := models.AnalysisResult{
		models.MetricEyePouch: metric(1),
		models.MetricAcne:     acneRegions(3),
	}
	first := Score(result)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score(result))
	}
}
