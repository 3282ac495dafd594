package balance

import (
	"context"
	"database/sql"
	"fmt"

	balanceerrors "go-hrms/internal/balance/errors"

	"github.com/google/uuid"
)

// deductibleColumns whitelists the category-to-column mapping so the
// deduction statement can never be built from client input directly.
// Unpaid leave is tracked but never deducted.
var deductibleColumns = map[string]string{
	"annual":      "annual",
	"sick":        "sick",
	"personal":    "personal",
	"bereavement": "bereavement",
}

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	EnsureDefaults(ctx context.Context, employeeID string) error
	Get(ctx context.Context, employeeID string) (*LeaveBalance, error)
	DeductCategory(ctx context.Context, employeeID, category string, days int) (*LeaveBalance, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// EnsureDefaults lazily seeds the default allowance row. The upsert is
// idempotent, so legacy employee records acquire a balance on first
// touch without a migration step.
func (r *repository) EnsureDefaults(ctx context.Context, employeeID string) error {
	query := `
INSERT INTO leave_balances (employee_id, annual, sick, personal, bereavement, unpaid, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
ON CONFLICT (employee_id) DO NOTHING
`
	_, err := r.querier().ExecContext(
		ctx, query,
		employeeID,
		DefaultAnnual, DefaultSick, DefaultPersonal, DefaultBereavement, DefaultUnpaid,
	)
	return err
}

func (r *repository) Get(ctx context.Context, employeeID string) (*LeaveBalance, error) {
	query := `
SELECT employee_id::text, annual, sick, personal, bereavement, unpaid
FROM leave_balances
WHERE employee_id = $1
`
	row := r.querier().QueryRowContext(ctx, query, employeeID)
	return scanBalance(row)
}

// DeductCategory subtracts days from one category in a single guarded
// statement. GREATEST clamps the counter at zero, and because the
// subtraction happens inside the database, concurrent deductions can
// never overwrite each other with stale reads.
func (r *repository) DeductCategory(ctx context.Context, employeeID, category string, days int) (*LeaveBalance, error) {
	column, ok := deductibleColumns[category]
	if !ok {
		return nil, balanceerrors.ErrCategoryNotDeductible
	}

	query := fmt.Sprintf(`
UPDATE leave_balances
SET %s = GREATEST(%s - $2, 0), updated_at = NOW()
WHERE employee_id = $1
RETURNING employee_id::text, annual, sick, personal, bereavement, unpaid
`, column, column)

	row := r.querier().QueryRowContext(ctx, query, employeeID, days)
	return scanBalance(row)
}

func (r *repository) querier() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func scanBalance(row *sql.Row) (*LeaveBalance, error) {
	var (
		b  LeaveBalance
		id string
	)
	if err := row.Scan(&id, &b.Annual, &b.Sick, &b.Personal, &b.Bereavement, &b.Unpaid); err != nil {
		if err == sql.ErrNoRows {
			return nil, balanceerrors.ErrBalanceNotFound
		}
		return nil, err
	}

	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	b.EmployeeID = employeeID
	return &b, nil
}
