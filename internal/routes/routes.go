package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/quillcms/quill-backend/internal/handler"
	"github.com/quillcms/quill-backend/internal/middleware"
	"github.com/quillcms/quill-backend/pkg/jwt"
)

// Handlers bundles the HTTP handlers the router wires up
type Handlers struct {
	Schedule     *handler.ScheduleHandler
	Version      *handler.VersionHandler
	Bulk         *handler.BulkHandler
	Notification *handler.NotificationHandler
}

// Setup registers all API routes under /api/v1
func Setup(router *gin.Engine, h Handlers, jwtManager *jwt.Manager) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtManager))

	contents := v1.Group("/contents/:type/:id")
	{
		contents.POST("/schedule", h.Schedule.Create)

		contents.POST("/versions", h.Version.Create)
		contents.GET("/versions", h.Version.History)
		contents.DELETE("/versions", h.Version.Cleanup)
		contents.GET("/versions/:version", h.Version.Get)
		contents.POST("/versions/:version/revert", h.Version.Revert)
		contents.GET("/diff", h.Version.Diff)
		contents.GET("/stats", h.Version.Stats)
	}

	schedules := v1.Group("/schedules")
	{
		schedules.GET("", h.Schedule.List)
		schedules.GET("/stats", h.Schedule.Stats)
		schedules.PATCH("/:id", h.Schedule.Update)
		schedules.DELETE("/:id", h.Schedule.Cancel)
		schedules.POST("/run-due", middleware.RequireAdmin(), h.Schedule.RunDue)
		schedules.POST("/cleanup", middleware.RequireAdmin(), h.Schedule.Cleanup)
	}

	bulk := v1.Group("/bulk")
	{
		bulk.GET("/actions", h.Bulk.Actions)
		bulk.POST("/validate", h.Bulk.Validate)
		bulk.POST("", h.Bulk.Execute)
	}

	notifications := v1.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.PATCH("/:id/read", h.Notification.MarkAsRead)
	}
}
