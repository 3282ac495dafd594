package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-hrms/internal/balance"
	"go-hrms/internal/events"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveResponse, error)
	History(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	Pending(ctx context.Context) ([]LeaveResponse, error)
	Decide(ctx context.Context, actorID, requestID string, req DecideLeaveRequest) (LeaveResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	balanceRepo balance.Repository
	directory   Directory
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balanceRepo balance.Repository,
	directory Directory,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, balanceRepo, directory, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	balanceRepo balance.Repository,
	directory Directory,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		balanceRepo: balanceRepo,
		directory:   directory,
		outbox:      outboxRepo,
		logger:      l,
	}
}

// Submit records a new request in the pending state. The actor from the
// authenticated session becomes the owning employee; no balance is
// touched until an approval.
func (s *service) Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	rid := contextutil.GetRequestID(ctx)
	log.Debug("submit leave requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeID, startDate, endDate, err := validateSubmitRequest(actorID, req)
	if err != nil {
		log.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  req.LeaveType,
		Reason:     strings.TrimSpace(req.Reason),
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  inclusiveDays(startDate, endDate),
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actorID),
		zap.Int("total_days", l.TotalDays),
	)

	return mapToResponse(*l), nil
}

// History returns the employee's own requests, most recent first.
func (s *service) History(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	leaves, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

// Pending returns the approver queue, each entry enriched with a
// best-effort employee projection. A failed lookup yields the
// placeholder identity instead of dropping the entry or failing the
// listing.
func (s *service) Pending(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, err
	}

	resp := mapToListResponse(leaves)
	for i := range resp {
		summary, err := s.directory.Lookup(ctx, resp[i].EmployeeID)
		if err != nil || summary == nil {
			s.logger.Warn("pending leave employee lookup failed",
				zap.String("leave_id", resp[i].ID),
				zap.String("employee_id", resp[i].EmployeeID),
				zap.Error(err),
			)
			summary = PlaceholderEmployee()
		}
		resp[i].Employee = summary
	}
	return resp, nil
}

// Decide moves a pending request to approved or rejected. Approval of a
// non-unpaid type deducts the inclusive-day duration from the matching
// balance category inside the same transaction, so the request can
// never end up approved with its deduction lost.
func (s *service) Decide(ctx context.Context, actorID, requestID string, req DecideLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("decide leave requested",
		zap.String("leave_id", requestID),
		zap.String("actor_id", actorID),
		zap.String("target_status", req.Status),
	)

	if !IsDecision(req.Status) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	l.Status = req.Status
	l.ApprovedBy = &actorUUID
	l.ApprovedAt = &now
	if comment := strings.TrimSpace(req.ManagerComment); comment != "" {
		l.ManagerComment = &comment
	}

	applied, err := qtx.ApplyDecision(ctx, l)
	if err != nil {
		log.Error("decide leave persist failed",
			zap.String("leave_id", requestID),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !applied {
		// Lost the race against another approver.
		log.Warn("decide leave guard rejected stale decision",
			zap.String("leave_id", requestID),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	if req.Status == StatusApproved && l.LeaveType != TypeUnpaid {
		qbal := s.balanceRepo.WithTx(tx)
		if err := qbal.EnsureDefaults(ctx, l.EmployeeID.String()); err != nil {
			log.Error("decide leave seed balance failed",
				zap.String("employee_id", l.EmployeeID.String()),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
		if _, err := qbal.DeductCategory(ctx, l.EmployeeID.String(), l.LeaveType, l.TotalDays); err != nil {
			log.Error("decide leave balance deduction failed",
				zap.String("leave_id", requestID),
				zap.String("employee_id", l.EmployeeID.String()),
				zap.String("category", l.LeaveType),
				zap.Int("days", l.TotalDays),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if s.outbox != nil {
		if err := s.writeDecisionEvent(ctx, tx, l, actorID); err != nil {
			log.Error("decide leave outbox write failed", zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("decide leave commit failed",
			zap.String("leave_id", requestID),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	log.Info("decide leave success",
		zap.String("leave_id", requestID),
		zap.String("status", l.Status),
		zap.String("decided_by", actorID),
	)

	return mapToResponse(*l), nil
}

func (s *service) writeDecisionEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, actorID string) error {
	eventType := events.LeaveRejectedEventType
	if l.Status == StatusApproved {
		eventType = events.LeaveApprovedEventType
	}

	event := events.LeaveDecidedEvent{
		EventType:  eventType,
		RequestID:  l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		TotalDays:  l.TotalDays,
		Status:     l.Status,
		DecidedBy:  actorID,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	qoutbox := s.outbox.WithTx(tx)
	return qoutbox.Create(ctx, kafka.OutboxEvent{
		ID:          uuid.New().String(),
		RequestID:   contextutil.GetRequestID(ctx),
		AggregateID: l.ID.String(),
		EventType:   eventType,
		Topic:       events.LeaveDecidedTopic,
		Payload:     payload,
		Status:      kafka.OutboxStatusPending,
	})
}

func validateSubmitRequest(actorID string, req SubmitLeaveRequest) (uuid.UUID, time.Time, time.Time, error) {
	employeeID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidActorID
	}
	if !IsValidType(req.LeaveType) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}
	if strings.TrimSpace(req.Reason) == "" {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrReasonRequired
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	if endDate.Before(startDate) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return employeeID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}
