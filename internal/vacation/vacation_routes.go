package vacation

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
	vacations := r.Group("/vacations")
	vacations.Use(middleware.AuthMiddleware())
	{
		vacations.GET("", middleware.RBACAuthorize(rbacService, "vacation", "read"), h.GetAll)
		vacations.GET("/:id", middleware.RBACAuthorize(rbacService, "vacation", "read"), h.GetById)
		vacations.POST("",
			middleware.RBACAuthorize(rbacService, "vacation", "create"),
			middleware.Idempotency(rdb),
			h.Create,
		)
		vacations.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "vacation", "approve"), h.Approve)
		vacations.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "vacation", "approve"), h.Reject)
		vacations.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "vacation", "update"), h.Cancel)
	}

	balances := r.Group("/vacation-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "vacation", "read"), h.GetBalance)
		balances.POST("/carry-over", middleware.RBACAuthorize(rbacService, "vacation", "approve"), h.CarryOver)
	}
}
