package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/facewell/internal/auth"
	"github.com/your-org/facewell/internal/models"
	"github.com/your-org/facewell/internal/storage"
	"github.com/your-org/facewell/internal/wellness"
	"github.com/your-org/facewell/pkg/dto"
)

// averagesWindow is how many recent analyses feed the rolling averages.
const averagesWindow = 30

type InsightsHandler struct {
	db *storage.PostgresStore
}

func NewInsightsHandler(db *storage.PostgresStore) *InsightsHandler {
	return &InsightsHandler{db: db}
}

// Get pairs the user's latest analysis with today's habit log and runs the
// insight rules over them, alongside rolling metric averages.
func (h *InsightsHandler) Get(c *gin.Context) {
	userID, _ := auth.UserID(c)
	ctx := c.Request.Context()

	averages, err := h.db.MetricAverages(ctx, userID, averagesWindow)
	if err != nil {
		slog.Error("metric averages", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load insights"})
		return
	}

	latest, err := h.db.LatestAnalysis(ctx, userID)
	if err != nil {
		slog.Error("latest analysis", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load insights"})
		return
	}

	habits, err := h.db.GetHabitLog(ctx, userID, time.Now())
	if err != nil {
		slog.Error("get habit log", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load insights"})
		return
	}

	var results models.AnalysisResult
	if latest != nil {
		results = latest.Results
	}

	c.JSON(http.StatusOK, dto.InsightsResponse{
		Averages: averages,
		Insights: wellness.BuildInsights(results, habits),
	})
}
