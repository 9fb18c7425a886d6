package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uasphere/uas-backend/internal/app/controllers"
	"github.com/uasphere/uas-backend/internal/app/models"
	"github.com/uasphere/uas-backend/internal/app/models/dto"
	"github.com/uasphere/uas-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	programController *controllers.ProgramController,
	applicationController *controllers.ApplicationController,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) {
	// API version group
	v1 := router.Group("/api/v1")
	if rateLimiter != nil {
		v1.Use(rateLimiter.Limit())
	}

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/forgot-login-id", authController.ForgotLoginID)
	}

	// --- Public catalog reads ---
	programs := v1.Group("/programs")
	{
		programs.GET("", programController.ListPrograms)
		programs.GET("/search", programController.SearchPrograms)
		programs.POST("/search", programController.SearchPrograms)
		programs.GET("/:id", programController.GetProgram)
	}

	schedules := v1.Group("/scheduled-programs")
	{
		schedules.GET("", programController.ListSchedules)
		schedules.GET("/:id", programController.GetSchedule)
	}

	// Applications are submitted without a session.
	v1.POST("/applications", applicationController.SubmitApplication)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/account-details", authController.GetAccountDetails)
		authenticated.POST("/auth/update-account-details", authController.UpdateAccountDetails)

		// Catalog mutation is limited to staff roles.
		staff := authenticated.Group("")
		staff.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleManager))
		{
			staff.POST("/programs", programController.CreateProgram)
			staff.PUT("/programs/:id", programController.UpdateProgram)
			staff.DELETE("/programs/:id", programController.DeleteProgram)

			// Form-style aliases kept for older clients.
			staff.POST("/program/create", programController.CreateProgram)
			staff.POST("/programs/update/:id", programController.UpdateProgram)
			staff.POST("/programs/delete/:id", programController.DeleteProgram)

			staff.POST("/scheduled-programs", programController.CreateSchedule)
			staff.PUT("/scheduled-programs/:id", programController.UpdateSchedule)
			staff.DELETE("/scheduled-programs/:id", programController.DeleteSchedule)

			staff.GET("/applications", applicationController.ListApplications)
			staff.GET("/applications/:id", applicationController.GetApplication)
			staff.PUT("/applications/:id", applicationController.ReviewApplication)
			staff.DELETE("/applications/:id", applicationController.DeleteApplication)
			staff.POST("/applications/:id/participants", applicationController.EnrollParticipant)
			staff.GET("/scheduled-programs/:id/participants", applicationController.ListParticipants)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
