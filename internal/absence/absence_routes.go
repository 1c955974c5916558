package absence

import (
	"driftpro/internal/middleware"
	"driftpro/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	absences := r.Group("/absences")
	absences.Use(middleware.AuthMiddleware())
	{
		absences.GET("", middleware.RBACAuthorize(rbacService, "absence", "read"), h.GetAll)
		absences.GET("/:id", middleware.RBACAuthorize(rbacService, "absence", "read"), h.GetById)
		absences.POST("",
			middleware.RBACAuthorize(rbacService, "absence", "create"),
			middleware.Idempotency(rdb),
			h.Create,
		)
		absences.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "absence", "approve"), h.Approve)
		absences.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "absence", "approve"), h.Reject)
		absences.DELETE("/:id", middleware.RBACAuthorize(rbacService, "absence", "delete"), h.Delete)
	}
}
