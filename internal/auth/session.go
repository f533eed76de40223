package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/your-org/facewell/internal/models"
	"github.com/your-org/facewell/internal/storage"
)

const (
	headerName = "session-token"
	userIDKey  = "user_id"

	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Sessions validates session tokens against Postgres, with a short-lived
// in-process cache in front to keep the hot path off the database.
type Sessions struct {
	db    *storage.PostgresStore
	cache *gocache.Cache
}

func NewSessions(db *storage.PostgresStore) *Sessions {
	return &Sessions{
		db:    db,
		cache: gocache.New(cacheTTL, cacheCleanup),
	}
}

// Middleware authenticates the session-token header and stores the user ID
// in the gin context.
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(headerName)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		sess, err := s.lookup(c, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		if sess == nil || sess.Expired(time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(userIDKey, sess.UserID)
		c.Next()
	}
}

func (s *Sessions) lookup(c *gin.Context, token string) (*models.Session, error) {
	if cached, ok := s.cache.Get(token); ok {
		return cached.(*models.Session), nil
	}

	sess, err := s.db.GetSession(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		s.cache.Set(token, sess, gocache.DefaultExpiration)
	}
	return sess, nil
}

// Invalidate drops a token from the cache (logout).
func (s *Sessions) Invalidate(token string) {
	s.cache.Delete(token)
}

// UserID extracts the authenticated user from a gin context. The bool is
// false on unauthenticated routes.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
