package router

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/ateeq/quizforge/internal/config"
	"github.com/ateeq/quizforge/internal/handler"
	"github.com/ateeq/quizforge/internal/middleware"
	"github.com/ateeq/quizforge/internal/response"
	"github.com/ateeq/quizforge/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Quiz     *handler.QuizHandler
	Question *handler.QuestionHandler
	Media    *handler.MediaHandler
	Play     *handler.PlayHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background helpers such as the rate limiter's eviction loop.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

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
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())

	// Stored images and audio are already compressed.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper:   middleware.SkipPathPrefixes("/media/"),
	}))

	// Stored objects get unique names, so they can be cached for a year.
	for _, bucket := range []string{cfg.ImageBucket, cfg.AudioBucket} {
		mediaGroup := router.Group("/media/" + bucket)
		mediaGroup.Use(middleware.CacheControl(365 * 24 * time.Hour))
		mediaGroup.Static("/", filepath.Join(cfg.MediaDir, bucket))
	}

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Play Group (Public, Rate Limited) ──────────────────────────
	playLimiter := middleware.NewRateLimiter(ctx, 120, time.Minute)
	playAPI := router.Group("/api/v1/play")
	playAPI.Use(playLimiter.Middleware())
	{
		playAPI.GET("/quizzes/:ref", handlers.Play.GetQuiz)
		playAPI.POST("/sessions", handlers.Play.StartSession)
		playAPI.GET("/sessions/:id", handlers.Play.GetSession)
		playAPI.GET("/sessions/:id/answers", handlers.Play.GetAnswers)
		playAPI.PUT("/sessions/:id/answers/:question_id", handlers.Play.SetAnswer)
		playAPI.POST("/sessions/:id/finish", handlers.Play.FinishSession)
		playAPI.POST("/sessions/:id/reset", handlers.Play.ResetSession)
	}

	// ─── 2. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Quizzes
		adminAPI.POST("/quizzes", handlers.Quiz.CreateQuiz)
		adminAPI.GET("/quizzes/:id", handlers.Quiz.GetQuiz)
		adminAPI.PUT("/quizzes/:id", handlers.Quiz.UpdateQuiz)
		adminAPI.DELETE("/quizzes/:id", handlers.Quiz.DeleteQuiz)

		// Questions and options
		adminAPI.POST("/quizzes/:id/questions", handlers.Question.SaveQuestion)
		adminAPI.GET("/questions/:id", handlers.Question.GetQuestion)
		adminAPI.PATCH("/questions/:id/order", handlers.Question.ReorderQuestion)
		adminAPI.DELETE("/questions/:id", handlers.Question.DeleteQuestion)
		adminAPI.DELETE("/options/:id", handlers.Question.DeleteOption)

		// Media library
		adminAPI.POST("/media/:kind", handlers.Media.UploadMedia)
		adminAPI.GET("/media/:kind", handlers.Media.ListMedia)
	}

	return router
}
