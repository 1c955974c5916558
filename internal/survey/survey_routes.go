package survey

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
	surveys := r.Group("/surveys")
	surveys.Use(middleware.AuthMiddleware())
	{
		surveys.GET("", h.GetAll)
		surveys.GET("/:id", h.GetById)
		surveys.POST("", middleware.RBACAuthorize(rbacService, "survey", "create"), h.Create)
		surveys.PUT("/:id", middleware.RBACAuthorize(rbacService, "survey", "update"), h.Update)
		surveys.DELETE("/:id", middleware.RBACAuthorize(rbacService, "survey", "delete"), h.Delete)

		surveys.POST("/:id/activate", middleware.RBACAuthorize(rbacService, "survey", "update"), h.Activate)
		surveys.POST("/:id/complete", middleware.RBACAuthorize(rbacService, "survey", "update"), h.Complete)
		surveys.POST("/:id/archive", middleware.RBACAuthorize(rbacService, "survey", "update"), h.Archive)

		surveys.POST("/:id/submissions", h.Submit)
		surveys.GET("/:id/submissions", middleware.RBACAuthorize(rbacService, "survey", "read"), h.GetSubmissions)
	}
}
