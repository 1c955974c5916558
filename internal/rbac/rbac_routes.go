package rbac

import (
	"driftpro/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", middleware.RoleMiddleware("admin"), handler.Enforce)
		group.GET("/roles", middleware.RBACAuthorize(rbacService, "role", "read"), handler.ListRoles)
		group.GET("/permissions", middleware.RBACAuthorize(rbacService, "role", "read"), handler.ListPermissions)
		group.PUT("/roles/:role/permissions", middleware.RBACAuthorize(rbacService, "role", "update"), handler.UpdateRolePermissions)
	}
}
