package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/facewell/internal/auth"
	"github.com/your-org/facewell/internal/models"
	"github.com/your-org/facewell/internal/storage"
	"github.com/your-org/facewell/pkg/dto"
)

type AuthHandler struct {
	db         *storage.PostgresStore
	verifier   *auth.GoogleVerifier
	sessions   *auth.Sessions
	sessionTTL time.Duration
}

func NewAuthHandler(db *storage.PostgresStore, verifier *auth.GoogleVerifier, sessions *auth.Sessions, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{db: db, verifier: verifier, sessions: sessions, sessionTTL: sessionTTL}
}

// Google exchanges a Google sign-in credential for a session token,
// creating the user on first sign-in.
func (h *AuthHandler) Google(c *gin.Context) {
	var req dto.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credential is required"})
		return
	}

	claims, err := h.verifier.Verify(c.Request.Context(), req.Credential)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredential) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
			return
		}
		slog.Error("verify google credential", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "credential verification unavailable"})
		return
	}

	user, err := h.db.UpsertGoogleUser(c.Request.Context(), claims.Sub, claims.Email, claims.Name, claims.Picture)
	if err != nil {
		slog.Error("upsert user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		return
	}

	sess := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(h.sessionTTL),
	}
	if err := h.db.CreateSession(c.Request.Context(), sess); err != nil {
		slog.Error("create session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign in"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{SessionToken: sess.Token, User: user})
}

// Logout deletes the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetHeader("session-token")
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if err := h.db.DeleteSession(c.Request.Context(), token); err != nil {
		slog.Error("delete session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
		return
	}
	h.sessions.Invalidate(token)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
