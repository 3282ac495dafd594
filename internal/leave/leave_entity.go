package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeAnnual      = "annual"
	TypeSick        = "sick"
	TypePersonal    = "personal"
	TypeBereavement = "bereavement"
	TypeUnpaid      = "unpaid"
)

var leaveTypes = map[string]struct{}{
	TypeAnnual:      {},
	TypeSick:        {},
	TypePersonal:    {},
	TypeBereavement: {},
	TypeUnpaid:      {},
}

func IsValidType(t string) bool {
	_, ok := leaveTypes[t]
	return ok
}

// IsDecision reports whether s is a terminal status an approver may set.
// The only legal transitions are pending -> approved and
// pending -> rejected; both are terminal.
func IsDecision(s string) bool {
	return s == StatusApproved || s == StatusRejected
}

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_created"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	Reason    string    `gorm:"type:text;not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	TotalDays int       `gorm:"type:int;not null;default:1"`

	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`
	ManagerComment *string    `gorm:"type:text"`
	ApprovedBy     *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt     *time.Time

	CreatedAt time.Time `gorm:"index:idx_leave_requests_employee_created,sort:desc"`
	UpdatedAt time.Time
}

// inclusiveDays counts both the start and end calendar day, so a
// request spanning 2024-03-01..2024-03-03 costs 3 days. This is the
// figure deducted from the balance on approval.
func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
