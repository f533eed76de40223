package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisResultHelpers(t *testing.T) {
	r := AnalysisResult{
		MetricEyePouch: {Value: 1, Confidence: 0.92},
		MetricAcne:     {Value: 1, Rectangle: []Region{{X: 1}, {X: 2}, {X: 3}}},
	}

	assert.Equal(t, 1, r.Value(MetricEyePouch))
	assert.Equal(t, 0, r.Value(MetricDarkCircle), "absent metric reads as zero")
	assert.True(t, r.Has(MetricEyePouch))
	assert.False(t, r.Has(MetricDarkCircle))
	assert.Equal(t, 3, r.RegionCount(MetricAcne))
	assert.Equal(t, 0, r.RegionCount(MetricEyePouch))
}

func TestMetricVectorOrderIsStable(t *testing.T) {
	a := &Analysis{Results: AnalysisResult{
		MetricEyePouch:        {Value: 1},
		MetricDarkCircle:      {Value: 2},
		MetricBlackhead:       {Value: 3},
		MetricForeheadWrinkle: {Value: 1},
		MetricCrowsFeet:       {Value: 1},
		MetricPoresForehead:   {Value: 2},
		MetricAcne:            {Rectangle: []Region{{}, {}}},
		MetricSkinAge:         {Value: 29},
	}}

	assert.Equal(t, []float32{1, 2, 3, 1, 1, 2, 2, 29}, a.MetricVector())
}

func TestMetricVectorEmptyResults(t *testing.T) {
	a := &Analysis{Results: AnalysisResult{}}
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0, 0, 0}, a.MetricVector())
}

func TestAnalysisResultUnmarshal(t *testing.T) {
	// A trimmed provider payload; unknown metrics ride along untouched.
	payload := []byte(`{
		"eye_pouch": {"value": 1, "confidence": 0.87},
		"acne": {"value": 1, "rectangle": [{"x": 10, "y": 20, "width": 5, "height": 5}]},
		"skin_age": {"value": 31}
	}`)

	var r AnalysisResult
	require.NoError(t, json.Unmarshal(payload, &r))
	assert.Equal(t, 1, r.Value("eye_pouch"))
	assert.InDelta(t, 0.87, r["eye_pouch"].Confidence, 1e-9)
	assert.Equal(t, 1, r.RegionCount("acne"))
	assert.Equal(t, 10, r["acne"].Rectangle[0].X)
	assert.Equal(t, 31, r.Value("skin_age"))
}
