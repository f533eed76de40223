package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/facewell/internal/auth"
	"github.com/your-org/facewell/internal/models"
	"github.com/your-org/facewell/internal/storage"
	"github.com/your-org/facewell/pkg/dto"
)

type HabitsHandler struct {
	db *storage.PostgresStore
}

func NewHabitsHandler(db *storage.PostgresStore) *HabitsHandler {
	return &HabitsHandler{db: db}
}

// Log upserts the habit log for one day. Date defaults to today; a second
// save for the same day overwrites the first.
func (h *HabitsHandler) Log(c *gin.Context) {
	userID, _ := auth.UserID(c)

	var req dto.HabitLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	log := &models.HabitLog{
		UserID:          userID,
		Date:            day,
		SleepHours:      req.SleepHours,
		WaterGlasses:    req.WaterGlasses,
		ExerciseMinutes: req.ExerciseMinutes,
		ScreenTimeHours: req.ScreenTimeHours,
		StressLevel:     req.StressLevel,
		Mood:            models.Mood(req.Mood),
		Notes:           req.Notes,
	}
	if err := h.db.UpsertHabitLog(c.Request.Context(), log); err != nil {
		slog.Error("upsert habit log", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save habit log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
