package balance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is one row per employee holding the per-category day
// counters. Counters never go below zero; deductions clamp at the floor.
type LeaveBalance struct {
	EmployeeID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Annual      int       `gorm:"type:int;not null;default:15"`
	Sick        int       `gorm:"type:int;not null;default:10"`
	Personal    int       `gorm:"type:int;not null;default:5"`
	Bereavement int       `gorm:"type:int;not null;default:3"`
	Unpaid      int       `gorm:"type:int;not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Default allowances granted to an employee the first time their
// balance is touched.
const (
	DefaultAnnual      = 15
	DefaultSick        = 10
	DefaultPersonal    = 5
	DefaultBereavement = 3
	DefaultUnpaid      = 0
)
