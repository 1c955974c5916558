package emailsettings

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
	settings := r.Group("/email-settings")
	settings.Use(middleware.AuthMiddleware())
	{
		settings.GET("", middleware.RBACAuthorize(rbacService, "email_settings", "read"), h.Get)
		settings.PUT("", middleware.RBACAuthorize(rbacService, "email_settings", "update"), h.Update)
		settings.POST("/test", middleware.RBACAuthorize(rbacService, "email_settings", "update"), h.SendTest)
	}

	logs := r.Group("/email-logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, "email_settings", "read"), h.GetLogs)
	}
}
