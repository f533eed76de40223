package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/facewell/internal/api/handlers"
	"github.com/your-org/facewell/internal/api/ws"
	"github.com/your-org/facewell/internal/auth"
	"github.com/your-org/facewell/internal/provider"
	"github.com/your-org/facewell/internal/queue"
	"github.com/your-org/facewell/internal/storage"
)

type RouterConfig struct {
	DB         *storage.PostgresStore
	Photos     *storage.PhotoStore
	Producer   *queue.Producer
	Analyzer   provider.Analyzer
	Verifier   *auth.GoogleVerifier
	Sessions   *auth.Sessions
	Hub        *ws.Hub
	SessionTTL time.Duration
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.Photos, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authH := handlers.NewAuthHandler(cfg.DB, cfg.Verifier, cfg.Sessions, cfg.SessionTTL)
	r.POST("/api/auth/google", authH.Google)

	// Everything below requires a valid session token.
	api := r.Group("/api")
	api.Use(cfg.Sessions.Middleware())

	api.POST("/auth/logout", authH.Logout)

	profileH := handlers.NewProfileHandler(cfg.DB)
	api.GET("/user/profile", profileH.Get)

	analyzeH := handlers.NewAnalyzeHandler(cfg.DB, cfg.Photos, cfg.Analyzer, cfg.Producer)
	api.POST("/analyze-face", analyzeH.Analyze)

	insightsH := handlers.NewInsightsHandler(cfg.DB)
	api.GET("/insights", insightsH.Get)

	historyH := handlers.NewHistoryHandler(cfg.DB)
	api.GET("/analysis/history", historyH.List)
	api.GET("/analysis/similar", historyH.Similar)

	habitsH := handlers.NewHabitsHandler(cfg.DB)
	api.POST("/habits/log", habitsH.Log)

	// WebSocket
	api.GET("/ws", cfg.Hub.HandleWS)

	return r
}
