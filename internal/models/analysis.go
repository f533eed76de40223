package models

import (
	"time"

	"github.com/google/uuid"
)

// Metric names returned by the skin-analysis provider. The provider's exact
// set varies by plan; consumers must treat absent metrics as "not measured".
const (
	MetricEyePouch        = "eye_pouch"
	MetricDarkCircle      = "dark_circle"
	MetricSkinAge         = "skin_age"
	MetricSkinType        = "skin_type"
	MetricBlackhead       = "blackhead"
	MetricForeheadWrinkle = "forehead_wrinkle"
	MetricCrowsFeet       = "crows_feet"
	MetricPoresForehead   = "pores_forehead"
	MetricAcne            = "acne"
)

// Skin type values for the skin_type metric.
const (
	SkinTypeOily        = 0
	SkinTypeDry         = 1
	SkinTypeNormal      = 2
	SkinTypeCombination = 3
)

// Region is one bounding box reported by the provider for region-based
// metrics such as acne.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Metric is a single provider measurement. Value is a small integer whose
// range depends on the metric (0/1 flags, 0-3 severities, or years for
// skin_age). Confidence, when reported, is a fraction in [0,1].
type Metric struct {
	Value      int      `json:"value"`
	Confidence float64  `json:"confidence,omitempty"`
	Rectangle  []Region `json:"rectangle,omitempty"`
}

// AnalysisResult maps metric name to its measurement. Read-only once
// produced; scorer and insight rules read specific keys and ignore the rest.
type AnalysisResult map[string]Metric

// Value returns the metric value, or 0 when the metric is absent.
func (r AnalysisResult) Value(name string) int {
	return r[name].Value
}

// Has reports whether the provider measured the given metric.
func (r AnalysisResult) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// RegionCount returns the number of bounding regions for a metric, 0 when
// the metric is absent or carries no regions.
func (r AnalysisResult) RegionCount(name string) int {
	return len(r[name].Rectangle)
}

// Analysis is one stored face analysis for a user.
type Analysis struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	UserID        uuid.UUID      `json:"user_id" db:"user_id"`
	Timestamp     time.Time      `json:"timestamp" db:"timestamp"`
	PhotoKey      string         `json:"photo_key" db:"photo_key"`
	Results       AnalysisResult `json:"results" db:"results"`
	WellnessScore int            `json:"wellness_score" db:"wellness_score"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// MetricVector flattens the scored metrics into a fixed-order vector for
// similarity search. Order must stay stable across releases; stored vectors
// are compared against it.
func (a *Analysis) MetricVector() []float32 {
	return []float32{
		float32(a.Results.Value(MetricEyePouch)),
		float32(a.Results.Value(MetricDarkCircle)),
		float32(a.Results.Value(MetricBlackhead)),
		float32(a.Results.Value(MetricForeheadWrinkle)),
		float32(a.Results.Value(MetricCrowsFeet)),
		float32(a.Results.Value(MetricPoresForehead)),
		float32(a.Results.RegionCount(MetricAcne)),
		float32(a.Results.Value(MetricSkinAge)),
	}
}

// AnalysisEvent is the message published after a completed analysis, consumed
// by the API to broadcast over WebSocket.
type AnalysisEvent struct {
	AnalysisID    uuid.UUID `json:"analysis_id"`
	UserID        uuid.UUID `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
	WellnessScore int       `json:"wellness_score"`
	PhotoKey      string    `json:"photo_key"`
}
