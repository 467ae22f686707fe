package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-service/internal/auth"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/services"
	"github.com/SAP-F-2025/course-service/internal/storage"
	"github.com/SAP-F-2025/course-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	profileHandler    *ProfileHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	fileHandler       *FileHandler
	authMiddleware    *AuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	jwtService *auth.JWTService,
	revocation *auth.RevocationStore,
	store storage.Store,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		profileHandler:    NewProfileHandler(serviceManager.Profile(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		fileHandler:       NewFileHandler(store, logger),
		authMiddleware:    NewAuthMiddleware(jwtService, revocation),
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes - registration and login are public
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", hm.authHandler.Register)
			authRoutes.POST("/login", hm.authHandler.Login)
			authRoutes.POST("/logout", hm.authMiddleware.RequireAuth(), hm.authHandler.Logout)
		}

		// Profile routes - any authenticated user
		profile := v1.Group("/profile")
		profile.Use(hm.authMiddleware.RequireAuth())
		{
			profile.GET("", hm.profileHandler.GetProfile)
			profile.PUT("", hm.profileHandler.UpdateProfile)
			profile.DELETE("", hm.profileHandler.DeleteProfile)
			profile.GET("/activity", hm.profileHandler.GetActivity)
		}

		// Course routes
		courses := v1.Group("/courses")
		courses.Use(hm.authMiddleware.RequireAuth())
		{
			// Catalog views - all authenticated users
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/mine", hm.enrollmentHandler.MyCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)

			// Course management - teachers only (ownership checked in service)
			courses.POST("", hm.authMiddleware.RequireRole(models.RoleTeacher), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.RequireRole(models.RoleTeacher), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.RequireRole(models.RoleTeacher), hm.courseHandler.DeleteCourse)
			courses.GET("/:id/roster", hm.authMiddleware.RequireRole(models.RoleTeacher), hm.courseHandler.ExportRoster)

			// Enrollment - students only
			courses.GET("/available", hm.authMiddleware.RequireRole(models.RoleStudent), hm.enrollmentHandler.BrowseAvailable)
			courses.POST("/:id/enroll", hm.authMiddleware.RequireRole(models.RoleStudent), hm.enrollmentHandler.Enroll)
			courses.DELETE("/:id/enroll", hm.authMiddleware.RequireRole(models.RoleStudent), hm.enrollmentHandler.Unenroll)
		}

		// Course asset routes
		files := v1.Group("/files")
		files.Use(hm.authMiddleware.RequireAuth())
		{
			files.POST("", hm.fileHandler.Upload)
			files.GET("/:id", hm.fileHandler.Download)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{
				"status":  "unhealthy",
				"service": "course-service",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "course-service",
		})
	})
}
