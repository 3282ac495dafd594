package app

import (
	"database/sql"
	"path/filepath"

	"go-hrms/internal/auth"
	"go-hrms/internal/balance"
	"go-hrms/internal/bootstrap"
	"go-hrms/internal/department"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/rbac"
	"go-hrms/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB, db)
	balanceRepo := balance.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(
		filepath.Join("internal", "rbac", "infra", "model.conf"),
		filepath.Join("internal", "rbac", "infra", "policy.csv"),
	)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	authService := auth.NewService(employeeRepo)
	departmentService := department.NewService(db, departmentRepo)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, outboxRepo)
	balanceService := balance.NewService(balanceRepo)
	leaveService := leave.NewServiceWithOutbox(
		db,
		leaveRepo,
		balanceRepo,
		leave.NewEmployeeDirectory(employeeRepo),
		outboxRepo,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandlerWithAudit(leaveService, balanceService, rdb, bootstrap.NewStdoutAuditLogger())

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
	}

	return nil
}
