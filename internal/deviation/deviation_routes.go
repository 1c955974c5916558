package deviation

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
	deviations := r.Group("/deviations")
	deviations.Use(middleware.AuthMiddleware())
	{
		deviations.GET("", middleware.RBACAuthorize(rbacService, "deviation", "read"), h.GetAll)
		deviations.GET("/:id", middleware.RBACAuthorize(rbacService, "deviation", "read"), h.GetById)
		deviations.POST("", middleware.RBACAuthorize(rbacService, "deviation", "create"), h.Create)
		deviations.PUT("/:id", middleware.RBACAuthorize(rbacService, "deviation", "update"), h.Update)
		deviations.POST("/:id/start", middleware.RBACAuthorize(rbacService, "deviation", "update"), h.StartProgress)
		deviations.POST("/:id/resolve", middleware.RBACAuthorize(rbacService, "deviation", "update"), h.Resolve)
		deviations.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "deviation", "update"), h.Reject)
		deviations.DELETE("/:id", middleware.RBACAuthorize(rbacService, "deviation", "delete"), h.Delete)
	}
}
