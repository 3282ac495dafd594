package app

import (
	"os"

	"go-hrms/internal/balance"
	"go-hrms/internal/department"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/middleware"
	"go-hrms/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const outboxTableDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id            UUID PRIMARY KEY,
	request_id    TEXT,
	aggregate_id  UUID NOT NULL,
	event_type    TEXT NOT NULL,
	topic         TEXT NOT NULL,
	payload       JSONB NOT NULL,
	status        TEXT NOT NULL DEFAULT 'pending',
	retry_count   INT NOT NULL DEFAULT 0,
	error_message TEXT,
	next_retry_at TIMESTAMPTZ,
	processed_at  TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
	ON outbox_events (status, created_at);
`

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := migrate(gormDB); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	return registerModules(router, sqlDB, gormDB, redisClient)
}

func migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&department.Department{},
		&employee.Employee{},
		&leave.LeaveRequest{},
		&balance.LeaveBalance{},
	); err != nil {
		return err
	}

	// The outbox is maintained through database/sql, not gorm.
	return gormDB.Exec(outboxTableDDL).Error
}
