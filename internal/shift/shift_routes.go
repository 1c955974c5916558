package shift

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
	shifts := r.Group("/shifts")
	shifts.Use(middleware.AuthMiddleware())
	{
		shifts.GET("", middleware.RBACAuthorize(rbacService, "shift", "read"), h.GetAll)
		shifts.GET("/:id", middleware.RBACAuthorize(rbacService, "shift", "read"), h.GetById)
		shifts.POST("", middleware.RBACAuthorize(rbacService, "shift", "create"), h.Create)
		shifts.PUT("/:id", middleware.RBACAuthorize(rbacService, "shift", "update"), h.Update)
		shifts.POST("/:id/start", middleware.RBACAuthorize(rbacService, "shift", "update"), h.Start)
		shifts.POST("/:id/complete", middleware.RBACAuthorize(rbacService, "shift", "update"), h.Complete)
		shifts.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "shift", "update"), h.Cancel)
		shifts.DELETE("/:id", middleware.RBACAuthorize(rbacService, "shift", "delete"), h.Delete)
	}
}
