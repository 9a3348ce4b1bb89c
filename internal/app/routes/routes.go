package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aboadu/classtrack/internal/app/controllers"
	"github.com/aboadu/classtrack/internal/app/models"
	"github.com/aboadu/classtrack/internal/app/models/dto"
	"github.com/aboadu/classtrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	sessionController *controllers.SessionController,
	attendanceController *controllers.AttendanceController,
	authMiddleware *middleware.AuthMiddleware,
	checkInLimiter middleware.Limiter,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})

	// Prometheus metrics (public, typically fenced off at the ingress)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		sessions := authenticated.Group("/sessions")
		{
			// Any authenticated principal may look a session up, e.g. a
			// student validating a hand-typed code before submitting.
			sessions.GET("/:code", sessionController.GetSession)

			sessionsLecturerProtected := sessions.Group("")
			sessionsLecturerProtected.Use(authMiddleware.RoleRequired(string(models.RoleLecturer), string(models.RoleAdmin)))
			{
				sessionsLecturerProtected.POST("", sessionController.CreateSession)
			}
		}

		checkIns := authenticated.Group("/checkins")
		{
			checkIns.POST("", middleware.RateLimit(checkInLimiter), attendanceController.CheckIn)

			// Log views and exports are lecturer dashboards
			checkInsLecturerProtected := checkIns.Group("")
			checkInsLecturerProtected.Use(authMiddleware.RoleRequired(string(models.RoleLecturer), string(models.RoleAdmin)))
			{
				checkInsLecturerProtected.GET("", attendanceController.GetLogs)
				checkInsLecturerProtected.GET("/export", attendanceController.ExportLogs)
			}
		}
	}
}
