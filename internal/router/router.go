package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/handler"
	"github.com/stemsi/voxmind-backend/internal/middleware"
	"github.com/stemsi/voxmind-backend/internal/response"
)

// catalogMaxAge is how long clients may reuse the quiz list.
const catalogMaxAge = 30

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz   *handler.QuizHandler
	Result *handler.ResultHandler
	WS     *handler.WSHandler
	System *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background middleware state such as the rate limiter sweep.
func SetupRouter(
	ctx context.Context,
	tokens middleware.TokenValidator,
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
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	launchLimiter := middleware.NewRateLimiter(ctx, cfg.LaunchRateLimit, time.Minute)

	// ─── 1. Quiz list and launch ───────────────────────────────────────
	quizzes := router.Group("/api/v1/quizzes")
	{
		quizzes.GET("", middleware.CacheControl(catalogMaxAge), handlers.Quiz.ListQuizzes)
		quizzes.POST("/refresh", handlers.Quiz.RefreshCatalog)
		quizzes.POST("/:quiz_id/launch",
			launchLimiter.Middleware(),
			middleware.NoStore(),
			handlers.Quiz.LaunchQuiz,
		)
		quizzes.GET("/:quiz_id/results", handlers.Result.ListResults)
		quizzes.GET("/:quiz_id/results/summary", handlers.Result.ResultSummary)
	}

	// ─── 2. System ─────────────────────────────────────────────────────
	router.GET("/api/v1/system/status", handlers.System.Status)

	// ─── 3. WebSocket Group (Session Token) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireSessionToken(tokens))
	{
		ws.GET("/session/stream", handlers.WS.SessionStream)
	}

	return router
}
