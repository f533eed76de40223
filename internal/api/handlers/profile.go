package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/facewell/internal/auth"
	"github.com/your-org/facewell/internal/storage"
	"github.com/your-org/facewell/pkg/dto"
)

type ProfileHandler struct {
	db *storage.PostgresStore
}

func NewProfileHandler(db *storage.PostgresStore) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// Get returns the signed-in user, including photo counters and streaks.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, _ := auth.UserID(c)

	user, err := h.db.GetUser(c.Request.Context(), userID)
	if err != nil {
		slog.Error("get user", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{User: user})
}
