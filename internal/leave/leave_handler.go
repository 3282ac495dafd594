package leave

import (
	"encoding/json"
	"net/http"
	"time"

	"go-hrms/internal/balance"
	"go-hrms/internal/bootstrap"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const balanceCacheTTL = 5 * time.Minute

type Handler struct {
	service  Service
	balances balance.Service
	rdb      *redis.Client
	audit    bootstrap.AuditLogger
	logger   *zap.Logger
}

func NewHandler(service Service, balances balance.Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	return NewHandlerWithAudit(service, balances, rdb, nil, logger...)
}

func NewHandlerWithAudit(service Service, balances balance.Service, rdb *redis.Client, audit bootstrap.AuditLogger, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, balances: balances, rdb: rdb, audit: audit, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("employee_id_validated")
	}
	return actorID
}

func balanceCacheKey(employeeID string) string {
	return "leave:balance:" + employeeID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
}

func (h *Handler) Submit(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	actorID := getActorID(c)

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit leave validation failed", zap.Error(err))
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	resp, err := h.service.History(c.Request.Context(), getActorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Pending(c *gin.Context) {
	resp, err := h.service.Pending(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	actorID := getActorID(c)
	requestID := c.Param("requestId")

	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide leave validation failed", zap.Error(err))
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), actorID, requestID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// An approval changed the counters, drop the stale cached balance.
	if h.rdb != nil && resp.Status == StatusApproved {
		_ = h.rdb.Del(c.Request.Context(), balanceCacheKey(resp.EmployeeID)).Err()
	}

	if h.audit != nil {
		h.audit.Log(c.Request.Context(), bootstrap.AuditLog{
			Action:  "LEAVE_DECISION",
			Message: "leave request " + resp.Status,
			Meta: map[string]any{
				"leave_id":    resp.ID,
				"employee_id": resp.EmployeeID,
				"decided_by":  actorID,
				"status":      resp.Status,
			},
		})
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Balance(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID := getActorID(c)
	key := balanceCacheKey(employeeID)

	if h.rdb != nil {
		if val, err := h.rdb.Get(ctx, key).Result(); err == nil {
			var cached balance.BalanceResponse
			if unmarshalErr := json.Unmarshal([]byte(val), &cached); unmarshalErr == nil {
				response.Success(c, http.StatusOK, cached, nil)
				return
			}
		}
	}

	resp, err := h.balances.Get(ctx, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
			_ = h.rdb.Set(ctx, key, payload, balanceCacheTTL).Err()
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}
