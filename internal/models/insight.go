package models

type InsightKind string

const (
	InsightCorrelation InsightKind = "correlation"
	InsightPositive    InsightKind = "positive"
	InsightWarning     InsightKind = "warning"
	InsightInfo        InsightKind = "info"
)

type InsightConfidence string

const (
	ConfidenceHigh   InsightConfidence = "high"
	ConfidenceMedium InsightConfidence = "medium"
	ConfidenceLow    InsightConfidence = "low"
)

// Insight is one rule-generated message pairing habit data with face
// metrics. Derived on demand, never persisted.
type Insight struct {
	Kind       InsightKind       `json:"kind"`
	Message    string            `json:"message"`
	Confidence InsightConfidence `json:"confidence,omitempty"`
}
