package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meeras/brigadier/internal/app/controllers"
	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/middleware"
	"github.com/meeras/brigadier/internal/pkg/auth"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Student      *controllers.StudentController
	Brigade      *controllers.BrigadeController
	Event        *controllers.EventController
	Attendance   *controllers.AttendanceController
	Notification *controllers.NotificationController
	Analytics    *controllers.AnalyticsController
	Health       *controllers.HealthController

	// WS serves the live notification stream. Optional.
	WS gin.HandlerFunc
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	jwtService *auth.JWTService,
	users middleware.UserLoader,
) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	api.GET("/health", ctrl.Health.Health)

	// Public auth routes
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", ctrl.Auth.Login)
		authRoutes.POST("/student-login", ctrl.Auth.StudentLogin)
	}

	// Everything below requires a valid token and an active account
	authenticated := api.Group("")
	authenticated.Use(middleware.JWTAuth(jwtService, users))

	authenticated.GET("/auth/me", ctrl.Auth.Me)

	if ctrl.WS != nil {
		authenticated.GET("/ws", ctrl.WS)
	}

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	adminOrLead := middleware.RequireRoles(models.RoleAdmin, models.RoleBrigadeLead)

	usersGroup := authenticated.Group("/users")
	{
		usersGroup.GET("", adminOnly, ctrl.User.List)
		usersGroup.POST("", adminOnly, ctrl.User.Create)
		usersGroup.PUT("/change-password", ctrl.User.ChangePassword)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", adminOrLead, ctrl.Student.List)
		students.GET("/:id", ctrl.Student.Get)
		students.POST("", adminOrLead, ctrl.Student.Create)
		students.PUT("/:id", adminOrLead, ctrl.Student.Update)
		students.DELETE("/:id", adminOnly, ctrl.Student.Delete)
	}

	brigades := authenticated.Group("/brigades")
	{
		brigades.GET("", adminOrLead, ctrl.Brigade.List)
		brigades.GET("/:id", adminOrLead, ctrl.Brigade.Get)
		brigades.POST("", adminOnly, ctrl.Brigade.Create)
		brigades.PUT("/:id", adminOnly, ctrl.Brigade.Update)
		brigades.DELETE("/:id", adminOnly, ctrl.Brigade.Delete)
	}

	events := authenticated.Group("/events")
	{
		events.GET("", ctrl.Event.List)
		events.GET("/current", ctrl.Event.Current)
		events.GET("/:id", ctrl.Event.Get)
		events.GET("/:id/days", ctrl.Event.Days)
		events.POST("", adminOnly, ctrl.Event.Create)
		events.PUT("/days/:dayId", adminOnly, ctrl.Event.UpdateDay)
		events.PUT("/:id", adminOnly, ctrl.Event.Update)
		events.DELETE("/:id", adminOnly, ctrl.Event.Delete)
	}

	attendance := authenticated.Group("/attendance")
	{
		attendance.GET("", ctrl.Attendance.List)
		attendance.POST("/mark", adminOrLead, ctrl.Attendance.Mark)
		attendance.POST("/bulk-mark", adminOrLead, ctrl.Attendance.BulkMark)
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", ctrl.Notification.List)
		notifications.GET("/unread-count", ctrl.Notification.UnreadCount)
		notifications.PUT("/:id/read", ctrl.Notification.MarkRead)
		notifications.POST("", adminOnly, ctrl.Notification.Create)
	}

	authenticated.GET("/analytics/dashboard", ctrl.Analytics.Dashboard)
}
