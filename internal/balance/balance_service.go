package balance

import (
	"context"

	balanceerrors "go-hrms/internal/balance/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, employeeID string) (BalanceResponse, error)
	Ensure(ctx context.Context, employeeID string) error
	Deduct(ctx context.Context, employeeID, category string, days int) (BalanceResponse, error)
}

type service struct {
	repo   Repository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, sf: &singleflight.Group{}, logger: l}
}

// Get reads the employee's balance bag, seeding the default allowances
// first if this employee has never been touched. Concurrent reads for
// the same employee collapse into one seed+select round trip.
func (s *service) Get(ctx context.Context, employeeID string) (BalanceResponse, error) {
	v, err, _ := s.sf.Do(employeeID, func() (any, error) {
		if err := s.repo.EnsureDefaults(ctx, employeeID); err != nil {
			return nil, err
		}
		return s.repo.Get(ctx, employeeID)
	})
	if err != nil {
		s.logger.Error("get balance failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	b := v.(*LeaveBalance)
	return mapToResponse(*b), nil
}

// Ensure seeds defaults without returning them; used by the employee
// lifecycle consumer so new hires start with a balance row already in
// place.
func (s *service) Ensure(ctx context.Context, employeeID string) error {
	if err := s.repo.EnsureDefaults(ctx, employeeID); err != nil {
		s.logger.Error("ensure balance defaults failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) Deduct(ctx context.Context, employeeID, category string, days int) (BalanceResponse, error) {
	if days < 0 {
		return BalanceResponse{}, balanceerrors.ErrNegativeDays
	}
	if _, ok := deductibleColumns[category]; !ok {
		if category == "unpaid" {
			return BalanceResponse{}, balanceerrors.ErrCategoryNotDeductible
		}
		return BalanceResponse{}, balanceerrors.ErrUnknownCategory
	}

	if err := s.repo.EnsureDefaults(ctx, employeeID); err != nil {
		return BalanceResponse{}, err
	}

	b, err := s.repo.DeductCategory(ctx, employeeID, category, days)
	if err != nil {
		s.logger.Error("deduct balance failed",
			zap.String("employee_id", employeeID),
			zap.String("category", category),
			zap.Int("days", days),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	s.logger.Info("balance deducted",
		zap.String("employee_id", employeeID),
		zap.String("category", category),
		zap.Int("days", days),
	)
	return mapToResponse(*b), nil
}
