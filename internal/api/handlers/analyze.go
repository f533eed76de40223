package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/facewell/internal/auth"
	"github.com/your-org/facewell/internal/models"
	"github.com/your-org/facewell/internal/observability"
	"github.com/your-org/facewell/internal/provider"
	"github.com/your-org/facewell/internal/queue"
	"github.com/your-org/facewell/internal/storage"
	"github.com/your-org/facewell/internal/wellness"
	"github.com/your-org/facewell/pkg/dto"
)

const (
	maxUploadBytes = 10 << 20
	photoURLExpiry = time.Hour
)

type AnalyzeHandler struct {
	db       *storage.PostgresStore
	photos   *storage.PhotoStore
	analyzer provider.Analyzer
	producer *queue.Producer
}

func NewAnalyzeHandler(db *storage.PostgresStore, photos *storage.PhotoStore, analyzer provider.Analyzer, producer *queue.Producer) *AnalyzeHandler {
	return &AnalyzeHandler{db: db, photos: photos, analyzer: analyzer, producer: producer}
}

// Analyze runs the full pipeline for an uploaded face photo: store the
// image, call the upstream skin-analysis provider, score the result,
// persist the analysis, bump the user's streak, and publish the completion
// event.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	userID, _ := auth.UserID(c)
	start := time.Now()

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	if len(imageData) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is empty"})
		return
	}
	if len(imageData) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	results, err := h.analyzer.Analyze(c.Request.Context(), imageData)
	if err != nil {
		observability.Analyses.WithLabelValues("provider_error").Inc()
		slog.Error("provider analyze", "error", err, "user_id", userID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "analysis provider unavailable"})
		return
	}

	now := time.Now()
	analysis := &models.Analysis{
		ID:            uuid.New(),
		UserID:        userID,
		Timestamp:     now,
		Results:       results,
		WellnessScore: wellness.Score(results),
	}
	analysis.PhotoKey = storage.PhotoKey(userID, analysis.ID)

	if err := h.photos.PutPhoto(c.Request.Context(), analysis.PhotoKey, imageData); err != nil {
		observability.Analyses.WithLabelValues("storage_error").Inc()
		slog.Error("store photo", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store photo"})
		return
	}

	if err := h.db.CreateAnalysis(c.Request.Context(), analysis); err != nil {
		observability.Analyses.WithLabelValues("storage_error").Inc()
		slog.Error("create analysis", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save analysis"})
		return
	}

	if _, err := h.db.RecordPhoto(c.Request.Context(), userID, now); err != nil {
		// Streak bookkeeping is best-effort; the analysis itself is saved.
		slog.Warn("record photo streak", "error", err, "user_id", userID)
	}

	event := models.AnalysisEvent{
		AnalysisID:    analysis.ID,
		UserID:        userID,
		Timestamp:     now,
		WellnessScore: analysis.WellnessScore,
		PhotoKey:      analysis.PhotoKey,
	}
	if err := h.producer.PublishAnalysis(c.Request.Context(), userID.String(), event); err != nil {
		slog.Warn("publish analysis event", "error", err, "analysis_id", analysis.ID)
	}

	photoURL, err := h.photos.PresignedURL(c.Request.Context(), analysis.PhotoKey, photoURLExpiry)
	if err != nil {
		slog.Warn("presign photo url", "error", err, "analysis_id", analysis.ID)
	}

	observability.Analyses.WithLabelValues("ok").Inc()
	observability.AnalysisDuration.Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, dto.AnalyzeResponse{
		ID:            analysis.ID,
		Results:       analysis.Results,
		WellnessScore: analysis.WellnessScore,
		PhotoURL:      photoURL,
	})
}
