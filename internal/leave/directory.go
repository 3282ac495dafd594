package leave

import (
	"context"

	"go-hrms/internal/employee"
)

//go:generate mockgen -source=directory.go -destination=mock/directory_mock.go -package=mock

// Directory resolves the display projection of a requesting employee
// for the approver's queue. The lookup is best effort: a miss must
// never fail the listing, callers substitute PlaceholderEmployee.
type Directory interface {
	Lookup(ctx context.Context, employeeID string) (*EmployeeSummary, error)
}

// PlaceholderEmployee stands in for requests whose employee record can
// no longer be resolved.
func PlaceholderEmployee() *EmployeeSummary {
	return &EmployeeSummary{
		ID:        "unknown",
		FirstName: "Unknown",
		LastName:  "Employee",
		Email:     "unknown@example.com",
	}
}

type employeeDirectory struct {
	repo employee.Repository
}

func NewEmployeeDirectory(repo employee.Repository) Directory {
	return &employeeDirectory{repo: repo}
}

func (d *employeeDirectory) Lookup(ctx context.Context, employeeID string) (*EmployeeSummary, error) {
	e, err := d.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return &EmployeeSummary{
		ID:        e.ID.String(),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		Position:  e.Position,
	}, nil
}
