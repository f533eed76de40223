package dto

import (
	"github.com/google/uuid"

	"github.com/your-org/facewell/internal/models"
)

// AnalyzeResponse is returned by POST /api/analyze-face.
type AnalyzeResponse struct {
	ID            uuid.UUID             `json:"id"`
	Results       models.AnalysisResult `json:"results"`
	WellnessScore int                   `json:"wellness_score"`
	PhotoURL      string                `json:"photo_url,omitempty"`
}

// HistoryEntry is one past analysis in GET /api/analysis/history.
type HistoryEntry struct {
	ID            uuid.UUID             `json:"id"`
	Timestamp     string                `json:"timestamp"`
	Results       models.AnalysisResult `json:"results"`
	WellnessScore int                   `json:"wellness_score"`
}

type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
	Total   int            `json:"total"`
}

// SimilarEntry is one match from GET /api/analysis/similar.
type SimilarEntry struct {
	AnalysisID    uuid.UUID `json:"analysis_id"`
	Timestamp     string    `json:"timestamp"`
	WellnessScore int       `json:"wellness_score"`
	Score         float32   `json:"score"`
}

type SimilarResponse struct {
	Matches []SimilarEntry `json:"matches"`
}

// InsightsResponse is returned by GET /api/insights: rolling metric
// averages plus the rule-generated insights for the latest analysis paired
// with today's habit log.
type InsightsResponse struct {
	Averages map[string]float64 `json:"averages,omitempty"`
	Insights []models.Insight   `json:"insights"`
}

// WSEvent is a WebSocket message for real-time delivery.
type WSEvent struct {
	Type          string    `json:"type"` // analysis_completed
	UserID        uuid.UUID `json:"user_id"`
	AnalysisID    uuid.UUID `json:"analysis_id"`
	WellnessScore int       `json:"wellness_score"`
	Timestamp     string    `json:"timestamp"`
}
