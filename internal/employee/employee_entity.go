package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName    string     `gorm:"type:varchar(100);not null"`
	LastName     string     `gorm:"type:varchar(100);not null"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password     string     `gorm:"type:varchar(255);not null"`
	Phone        string     `gorm:"type:varchar(50)"`
	Address      string     `gorm:"type:text"`
	Role         string     `gorm:"type:varchar(20);not null;default:'employee'"`
	Position     string     `gorm:"type:varchar(100)"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	HireDate     *time.Time `gorm:"type:date"`
	IsActive     bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
