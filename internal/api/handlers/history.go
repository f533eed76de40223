package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/facewell/internal/auth"
	"github.com/your-org/facewell/internal/models"
	"github.com/your-org/facewell/internal/storage"
	"github.com/your-org/facewell/pkg/dto"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 100
	similarLimit        = 5
)

type HistoryHandler struct {
	db *storage.PostgresStore
}

func NewHistoryHandler(db *storage.PostgresStore) *HistoryHandler {
	return &HistoryHandler{db: db}
}

// List returns the user's recent analyses, newest first.
func (h *HistoryHandler) List(c *gin.Context) {
	userID, _ := auth.UserID(c)

	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if n > maxHistoryLimit {
			n = maxHistoryLimit
		}
		limit = n
	}

	analyses, err := h.db.ListAnalyses(c.Request.Context(), userID, limit)
	if err != nil {
		slog.Error("list analyses", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	entries := make([]dto.HistoryEntry, 0, len(analyses))
	for _, a := range analyses {
		entries = append(entries, dto.HistoryEntry{
			ID:            a.ID,
			Timestamp:     a.Timestamp.Format(time.RFC3339),
			Results:       a.Results,
			WellnessScore: a.WellnessScore,
		})
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{History: entries, Total: len(entries)})
}

// Similar finds the past analyses whose metric vectors sit closest to the
// given analysis (or the latest one when id is omitted).
func (h *HistoryHandler) Similar(c *gin.Context) {
	userID, _ := auth.UserID(c)
	ctx := c.Request.Context()

	var source *models.Analysis
	if raw := c.Query("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
			return
		}
		source, err = h.db.GetAnalysis(ctx, id)
		if err != nil {
			slog.Error("get analysis", "error", err, "analysis_id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis"})
			return
		}
		if source != nil && source.UserID != userID {
			source = nil
		}
	} else {
		var err error
		source, err = h.db.LatestAnalysis(ctx, userID)
		if err != nil {
			slog.Error("latest analysis", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis"})
			return
		}
	}
	if source == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}

	matches, err := h.db.SimilarAnalyses(ctx, userID, source.MetricVector(), source.ID, similarLimit)
	if err != nil {
		slog.Error("similar analyses", "error", err, "analysis_id", source.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search similar analyses"})
		return
	}

	entries := make([]dto.SimilarEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, dto.SimilarEntry{
			AnalysisID:    m.AnalysisID,
			Timestamp:     m.Timestamp.Format(time.RFC3339),
			WellnessScore: m.WellnessScore,
			Score:         m.Score,
		})
	}

	c.JSON(http.StatusOK, dto.SimilarResponse{Matches: entries})
}
