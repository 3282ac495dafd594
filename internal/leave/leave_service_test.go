package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-hrms/internal/balance"
	"go-hrms/internal/leave"
	leaveerrors "go-hrms/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn         func(tx *sql.Tx) leave.Repository
	createFn         func(ctx context.Context, l *leave.LeaveRequest) error
	findByEmployeeFn func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error)
	findPendingFn    func(ctx context.Context) ([]leave.LeaveRequest, error)
	findByIDFn       func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	applyDecisionFn  func(ctx context.Context, l *leave.LeaveRequest) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	if f.findPendingFn != nil {
		return f.findPendingFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) ApplyDecision(ctx context.Context, l *leave.LeaveRequest) (bool, error) {
	if f.applyDecisionFn != nil {
		return f.applyDecisionFn(ctx, l)
	}
	return true, nil
}

type fakeBalanceRepository struct {
	withTxFn         func(tx *sql.Tx) balance.Repository
	ensureDefaultsFn func(ctx context.Context, employeeID string) error
	getFn            func(ctx context.Context, employeeID string) (*balance.LeaveBalance, error)
	deductCategoryFn func(ctx context.Context, employeeID, category string, days int) (*balance.LeaveBalance, error)
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBalanceRepository) EnsureDefaults(ctx context.Context, employeeID string) error {
	if f.ensureDefaultsFn != nil {
		return f.ensureDefaultsFn(ctx, employeeID)
	}
	return nil
}

func (f *fakeBalanceRepository) Get(ctx context.Context, employeeID string) (*balance.LeaveBalance, error) {
	if f.getFn != nil {
		return f.getFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) DeductCategory(ctx context.Context, employeeID, category string, days int) (*balance.LeaveBalance, error) {
	if f.deductCategoryFn != nil {
		return f.deductCategoryFn(ctx, employeeID, category, days)
	}
	return &balance.LeaveBalance{}, nil
}

type fakeDirectory struct {
	lookupFn func(ctx context.Context, employeeID string) (*leave.EmployeeSummary, error)
}

func (f *fakeDirectory) Lookup(ctx context.Context, employeeID string) (*leave.EmployeeSummary, error) {
	if f.lookupFn != nil {
		return f.lookupFn(ctx, employeeID)
	}
	return nil, errors.New("no lookup configured")
}

type leaveServiceDeps struct {
	db          *sql.DB
	sqlMock     sqlmock.Sqlmock
	service     leave.Service
	repo        *fakeLeaveRepository
	balanceRepo *fakeBalanceRepository
	directory   *fakeDirectory
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	balanceRepo := &fakeBalanceRepository{}
	directory := &fakeDirectory{}
	svc := leave.NewService(db, repo, balanceRepo, directory)

	return &leaveServiceDeps{
		db:          db,
		sqlMock:     sqlMock,
		service:     svc,
		repo:        repo,
		balanceRepo: balanceRepo,
		directory:   directory,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveType: leave.TypeAnnual,
			Reason:    "Family event",
			StartDate: "2026-03-01",
			EndDate:   "2026-03-03",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, uuid.MustParse(actorID), l.EmployeeID)
			assert.Equal(t, leave.TypeAnnual, l.LeaveType)
			assert.Equal(t, 3, l.TotalDays)
			assert.Equal(t, leave.StatusPending, l.Status)
			return nil
		}

		resp, err := deps.service.Submit(ctx, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, actorID, resp.EmployeeID)
		assert.Equal(t, leave.TypeAnnual, resp.LeaveType)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("single day counts as one", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.SubmitLeaveRequest{
			LeaveType: leave.TypeSick,
			Reason:    "Flu",
			StartDate: "2026-05-10",
			EndDate:   "2026-05-10",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, 1, l.TotalDays)
			return nil
		}

		resp, err := deps.service.Submit(ctx, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveType: leave.TypeAnnual,
			Reason:    "Trip",
			StartDate: "2026-03-05",
			EndDate:   "2026-03-01",
		}

		_, err := deps.service.Submit(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative malformed date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveType: leave.TypeAnnual,
			Reason:    "Trip",
			StartDate: "01-03-2026",
			EndDate:   "2026-03-03",
		}

		_, err := deps.service.Submit(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveType: "sabbatical",
			Reason:    "Long break",
			StartDate: "2026-03-01",
			EndDate:   "2026-03-03",
		}

		_, err := deps.service.Submit(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})

	t.Run("negative blank reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveType: leave.TypeAnnual,
			Reason:    "   ",
			StartDate: "2026-03-01",
			EndDate:   "2026-03-03",
		}

		_, err := deps.service.Submit(ctx, actorID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrReasonRequired)
	})

	t.Run("negative invalid actor", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.SubmitLeaveRequest{
			LeaveType: leave.TypeAnnual,
			Reason:    "Trip",
			StartDate: "2026-03-01",
			EndDate:   "2026-03-03",
		}

		_, err := deps.service.Submit(ctx, "not-a-uuid", req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidActorID)
	})
}

func TestLeaveService_History(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) ([]leave.LeaveRequest, error) {
			assert.Equal(t, employeeID, eid)
			return []leave.LeaveRequest{
				{
					ID:         uuid.New(),
					EmployeeID: uuid.MustParse(employeeID),
					LeaveType:  leave.TypeSick,
					StartDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
					EndDate:    time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
					TotalDays:  2,
					Status:     leave.StatusPending,
				},
			}, nil
		}

		resp, err := deps.service.History(ctx, employeeID)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, employeeID, resp[0].EmployeeID)
		assert.Equal(t, 2, resp[0].TotalDays)
	})

	t.Run("negative invalid employee id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.History(ctx, "abc")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidEmployeeID)
	})
}

func TestLeaveService_Pending(t *testing.T) {
	ctx := context.Background()

	t.Run("success with employee enrichment", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New()
		deps.repo.findPendingFn = func(ctx context.Context) ([]leave.LeaveRequest, error) {
			return []leave.LeaveRequest{
				{
					ID:         uuid.New(),
					EmployeeID: employeeID,
					LeaveType:  leave.TypeAnnual,
					TotalDays:  3,
					Status:     leave.StatusPending,
				},
			}, nil
		}
		deps.directory.lookupFn = func(ctx context.Context, eid string) (*leave.EmployeeSummary, error) {
			assert.Equal(t, employeeID.String(), eid)
			return &leave.EmployeeSummary{
				ID:        eid,
				FirstName: "Ana",
				LastName:  "Silva",
				Email:     "ana.silva@example.com",
			}, nil
		}

		resp, err := deps.service.Pending(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.NotNil(t, resp[0].Employee)
		assert.Equal(t, "Ana", resp[0].Employee.FirstName)
	})

	t.Run("failed lookup falls back to placeholder", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findPendingFn = func(ctx context.Context) ([]leave.LeaveRequest, error) {
			return []leave.LeaveRequest{
				{ID: uuid.New(), EmployeeID: uuid.New(), Status: leave.StatusPending},
			}, nil
		}
		deps.directory.lookupFn = func(ctx context.Context, eid string) (*leave.EmployeeSummary, error) {
			return nil, errors.New("employee gone")
		}

		resp, err := deps.service.Pending(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.NotNil(t, resp[0].Employee)
		assert.Equal(t, "unknown", resp[0].Employee.ID)
		assert.Equal(t, "Unknown", resp[0].Employee.FirstName)
		assert.Equal(t, "Employee", resp[0].Employee.LastName)
		assert.Equal(t, "unknown@example.com", resp[0].Employee.Email)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	requestID := uuid.New().String()
	employeeID := uuid.New()

	pendingLeave := func(leaveType string, totalDays int) *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:         uuid.MustParse(requestID),
			EmployeeID: employeeID,
			LeaveType:  leaveType,
			TotalDays:  totalDays,
			Status:     leave.StatusPending,
		}
	}

	t.Run("approval deducts balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingLeave(leave.TypeSick, 3), nil
		}

		deducted := false
		deps.balanceRepo.deductCategoryFn = func(ctx context.Context, eid, category string, days int) (*balance.LeaveBalance, error) {
			deducted = true
			assert.Equal(t, employeeID.String(), eid)
			assert.Equal(t, leave.TypeSick, category)
			assert.Equal(t, 3, days)
			return &balance.LeaveBalance{Sick: 7}, nil
		}

		resp, err := deps.service.Decide(ctx, actorID, requestID, leave.DecideLeaveRequest{
			Status:         leave.StatusApproved,
			ManagerComment: "Get well soon",
		})

		assert.NoError(t, err)
		assert.True(t, deducted)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, actorID, *resp.ApprovedBy)
		assert.NotNil(t, resp.ManagerComment)
		assert.Equal(t, "Get well soon", *resp.ManagerComment)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved unpaid never deducts", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingLeave(leave.TypeUnpaid, 5), nil
		}
		deps.balanceRepo.deductCategoryFn = func(ctx context.Context, eid, category string, days int) (*balance.LeaveBalance, error) {
			t.Fatal("unpaid leave must not touch the balance")
			return nil, nil
		}

		resp, err := deps.service.Decide(ctx, actorID, requestID, leave.DecideLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejection never deducts", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingLeave(leave.TypeAnnual, 3), nil
		}
		deps.balanceRepo.deductCategoryFn = func(ctx context.Context, eid, category string, days int) (*balance.LeaveBalance, error) {
			t.Fatal("rejection must not touch the balance")
			return nil, nil
		}

		resp, err := deps.service.Decide(ctx, actorID, requestID, leave.DecideLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid decision status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Decide(ctx, actorID, requestID, leave.DecideLeaveRequest{
			Status: leave.StatusPending,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDecision)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Decide(ctx, actorID, requestID, leave.DecideLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			l := pendingLeave(leave.TypeAnnual, 3)
			l.Status = leave.StatusApproved
			return l, nil
		}

		_, err := deps.service.Decide(ctx, actorID, requestID, leave.DecideLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyDecided)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative lost decision race", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return pendingLeave(leave.TypeAnnual, 3), nil
		}
		deps.repo.applyDecisionFn = func(ctx context.Context, l *leave.LeaveRequest) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Decide(ctx, actorID, requestID, leave.DecideLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyDecided)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid request id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Decide(ctx, actorID, "nope", leave.DecideLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidRequestID)
	})
}
