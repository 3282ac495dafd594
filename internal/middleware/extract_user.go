package middleware

import (
	"net/http"

	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ExtractEmployeeID re-asserts the employee id set by AuthMiddleware as a
// plain string, so downstream handlers can use c.GetString safely.
func ExtractEmployeeID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		employeeID, exists := ctx.Get("employee_id")
		if !exists {
			response.Error(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "Employee is not authenticated", nil)
			ctx.Abort()
			return
		}

		idStr, ok := employeeID.(string)
		if !ok || idStr == "" {
			response.Error(ctx, http.StatusUnauthorized, "INVALID_EMPLOYEE_ID", "Employee id has an invalid format", nil)
			ctx.Abort()
			return
		}

		ctx.Set("employee_id_validated", idStr)
		ctx.Next()
	}
}
