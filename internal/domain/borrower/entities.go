package borrower

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("borrower not found")
	ErrDuplicate       = errors.New("borrower already exists")
	ErrUnknownBorrower = errors.New("unknown borrower code")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Table: employees (primary borrower directory)
type Employee struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"id"`
	EmployeeCode string    `gorm:"column:employee_code;size:32;not null;uniqueIndex:ux_employees_code" json:"employee_code"`
	Name         string    `gorm:"column:name;size:255;not null" json:"name"`
	Email        string    `gorm:"column:email;size:255" json:"email"`
	Phone        string    `gorm:"column:phone;size:32" json:"phone"`
	Department   string    `gorm:"column:department;size:255" json:"department"`
	Position     string    `gorm:"column:position;size:255" json:"position"`
	Status       Status    `gorm:"column:status;type:enum('active','inactive');default:'active'" json:"status"`
	UserID       *uint64   `gorm:"column:user_id;index" json:"user_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }

// Table: staff (secondary registry, read-only here)
type Staff struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"id"`
	NIP      string `gorm:"column:nip;size:32;not null;uniqueIndex" json:"nip"`
	Name     string `gorm:"column:name;size:255;not null" json:"name"`
	Email    string `gorm:"column:email;size:255" json:"email"`
	Phone    string `gorm:"column:phone;size:32" json:"phone"`
	Unit     string `gorm:"column:unit;size:255" json:"unit"`
	Position string `gorm:"column:position;size:255" json:"position"`
	Status   string `gorm:"column:status;size:32" json:"status"`
}

func (Staff) TableName() string { return "staff" }

// DirectoryStatus maps the registry's free-text status onto the directory enum.
func (s Staff) DirectoryStatus() Status {
	switch strings.ToLower(strings.TrimSpace(s.Status)) {
	case "active", "aktif", "1":
		return StatusActive
	default:
		return StatusInactive
	}
}

// ToEmployee synthesizes a directory entry from the staff record.
func (s Staff) ToEmployee() *Employee {
	return &Employee{
		EmployeeCode: s.NIP,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Department:   s.Unit,
		Position:     s.Position,
		Status:       s.DirectoryStatus(),
	}
}
