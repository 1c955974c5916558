package notification

import (
	"driftpro/internal/middleware"
	"driftpro/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService rbac.Service,
) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.GetAll)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("", middleware.RBACAuthorize(rbacService, "notification", "create"), h.Create)
		notifications.PUT("/:id/read", h.MarkRead)
		notifications.PUT("/:id/archive", h.Archive)
		notifications.PUT("/bulk-read", h.BulkMarkRead)
	}
}
