package leave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindPending(ctx context.Context) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	ApplyDecision(ctx context.Context, l *LeaveRequest) (bool, error)
}

type repository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	tx    *sql.Tx
}

func NewRepository(db *gorm.DB, sqlDB *sql.DB) Repository {
	return &repository{db: db, sqlDB: sqlDB}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, sqlDB: r.sqlDB, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPending(ctx context.Context) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

// ApplyDecision writes the terminal status with an optimistic guard on
// the current one: the UPDATE only matches while the row is still
// pending, so a concurrent decision cannot be overwritten. Returns
// false when the guard did not match. Runs through the caller's
// transaction so the decision and the balance deduction commit
// together.
func (r *repository) ApplyDecision(ctx context.Context, l *LeaveRequest) (bool, error) {
	query := `
UPDATE leave_requests
SET status = $2, manager_comment = $3, approved_by = $4, approved_at = $5, updated_at = NOW()
WHERE id = $1 AND status = $6
`
	res, err := r.execer().ExecContext(
		ctx, query,
		l.ID, l.Status, l.ManagerComment, l.ApprovedBy, l.ApprovedAt, StatusPending,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.sqlDB
}
