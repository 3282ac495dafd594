package leave

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	leave := r.Group("/leave")
	leave.Use(middleware.AuthMiddleware())
	{
		leave.POST("/submit",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.ExtractEmployeeID(),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leave.GET("/history", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.History)
		leave.GET("/balance", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Balance)
		leave.GET("/pending", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Pending)
		leave.PUT("/:requestId/status", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Decide)
	}
}
