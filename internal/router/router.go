package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/adiborse/online-examination-system/internal/config"
	"github.com/adiborse/online-examination-system/internal/handler"
	"github.com/adiborse/online-examination-system/internal/middleware"
	"github.com/adiborse/online-examination-system/internal/response"
	"github.com/adiborse/online-examination-system/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Exam     *handler.ExamHandler
	Question *handler.QuestionHandler
	Admin    *handler.AdminHandler
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

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. Exam Group (Student JWT) ───────────────────────────────────
	// The dashboard is readable by any authenticated user; taking an exam
	// is restricted to students.
	exam := router.Group("/api/v1/exam")
	{
		exam.GET("/dashboard", middleware.RequireJWT(authService), handlers.Exam.GetDashboard)

		student := exam.Group("")
		student.Use(middleware.RequireStudentJWT(authService))
		{
			student.GET("/start", handlers.Exam.StartExam)
			student.GET("/question/:index", handlers.Exam.GetQuestion)
			student.POST("/save-answer", handlers.Exam.SaveAnswer)
			student.GET("/submit", handlers.Exam.SubmitExam)
			student.POST("/submit", handlers.Exam.SubmitExam)
			student.GET("/status", handlers.Exam.GetStatus)
			student.GET("/result/:result_id", handlers.Exam.GetResult)
		}
	}

	// ─── 3. Admin Group (Admin JWT) ────────────────────────────────────
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.RequireAdminJWT(authService))
	{
		admin.GET("/dashboard", handlers.Admin.GetDashboard)
		admin.GET("/results", handlers.Admin.ListResults)

		admin.GET("/questions", handlers.Question.ListQuestions)
		admin.POST("/questions", handlers.Question.CreateQuestion)
		admin.GET("/questions/:id", handlers.Question.GetQuestion)
		admin.PUT("/questions/:id", handlers.Question.UpdateQuestion)
		admin.DELETE("/questions/:id", handlers.Question.DeleteQuestion)
	}

	return router
}
