package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lumelearn/player-backend/internal/config"
	"github.com/lumelearn/player-backend/internal/handler"
	"github.com/lumelearn/player-backend/internal/middleware"
	"github.com/lumelearn/player-backend/internal/response"
	"github.com/lumelearn/player-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Player *handler.PlayerHandler
	WS     *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for upstream-mutating routes (60 requests per minute
	// per learner).
	mutationLimiter := middleware.NewRateLimiter(60, time.Minute)

	// ─── Player Group (Learner JWT) ────────────────────────────────────
	playerAPI := router.Group("/api/v1/player")
	playerAPI.Use(middleware.RequireLearnerJWT(authService))
	{
		playerAPI.POST("", handlers.Player.Open)
		playerAPI.GET("/:session_id", handlers.Player.Snapshot)
		playerAPI.DELETE("/:session_id", handlers.Player.Close)
		playerAPI.POST("/:session_id/select", handlers.Player.SelectItem)
		playerAPI.GET("/:session_id/sessions", handlers.Player.ListSessions)
		playerAPI.GET("/:session_id/quizzes/:content_id/preview", handlers.Player.QuizPreview)

		mutating := playerAPI.Group("")
		mutating.Use(mutationLimiter.Middleware())
		{
			mutating.POST("/:session_id/contents/:content_id/complete", handlers.Player.CompleteContent)
			mutating.POST("/:session_id/quizzes/:content_id/open", handlers.Player.OpenQuiz)
			mutating.PUT("/:session_id/quizzes/:content_id/answers", handlers.Player.SetQuizAnswers)
			mutating.POST("/:session_id/quizzes/:content_id/submit", handlers.Player.SubmitQuiz)
			mutating.PUT("/:session_id/assignments/:assignment_id/draft", handlers.Player.SaveDraft)
			mutating.POST("/:session_id/assignments/:assignment_id/submit", handlers.Player.SubmitAssignment)
		}
	}

	// ─── WebSocket Group (Learner JWT via ?token=) ─────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireLearnerJWT(authService))
	{
		ws.GET("/player/:session_id/sessions", handlers.WS.SessionStatusStream)
	}

	return router
}
