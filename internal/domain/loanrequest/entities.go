package loanrequest

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("loan request not found")
	ErrInvalidTransition = errors.New("loan request not found or already processed")
	ErrBookUnavailable   = errors.New("book already has an active loan")
	ErrInvalidInput      = errors.New("invalid input")
)

// LoanPeriodDays is a business rule, not caller input.
const LoanPeriodDays = 14

// DueDateFor returns the due date for a request approved at approvedAt.
func DueDateFor(approvedAt time.Time) time.Time {
	return approvedAt.AddDate(0, 0, LoanPeriodDays)
}

// Table: loan_requests
type LoanRequest struct {
	ID                  uint64     `gorm:"primaryKey;column:id" json:"id"`
	RequestCode         string     `gorm:"column:request_code;size:40;not null;uniqueIndex:ux_loan_requests_code" json:"request_code"`
	BookID              uint64     `gorm:"column:book_id;not null;index:idx_loan_requests_book_status" json:"book_id"`
	EmployeeCode        string     `gorm:"column:employee_code;size:32;not null;index" json:"employee_code"`
	BorrowerName        string     `gorm:"column:borrower_name;size:255" json:"borrower_name"`
	BorrowerEmail       string     `gorm:"column:borrower_email;size:255" json:"borrower_email"`
	BorrowerPhone       string     `gorm:"column:borrower_phone;size:32" json:"borrower_phone"`
	RequestDate         time.Time  `gorm:"column:request_date;not null" json:"request_date"`
	RequestedReturnDate *time.Time `gorm:"column:requested_return_date;type:date" json:"requested_return_date,omitempty"`
	ApprovalDate        *time.Time `gorm:"column:approval_date" json:"approval_date,omitempty"`
	LoanDate            *time.Time `gorm:"column:loan_date" json:"loan_date,omitempty"`
	DueDate             *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	ReturnDate          *time.Time `gorm:"column:return_date" json:"return_date,omitempty"`
	Status              Status     `gorm:"column:status;type:enum('pending','approved','rejected','on_loan','returned','overdue');default:'pending';index:idx_loan_requests_book_status" json:"status"`
	ApprovedBy          *uint64    `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovalNotes       string     `gorm:"column:approval_notes;type:text" json:"approval_notes,omitempty"`
	ReturnNotes         string     `gorm:"column:return_notes;type:text" json:"return_notes,omitempty"`
	Reason              string     `gorm:"column:reason;type:text" json:"reason,omitempty"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LoanRequest) TableName() string { return "loan_requests" }

// View is a LoanRequest joined with the display columns of its book and borrower.
type View struct {
	LoanRequest        `gorm:"embedded"`
	BookTitle          string `gorm:"column:book_title" json:"book_title"`
	BookISBN           string `gorm:"column:book_isbn" json:"book_isbn"`
	EmployeeName       string `gorm:"column:employee_name" json:"employee_name"`
	EmployeeDepartment string `gorm:"column:employee_department" json:"employee_department"`
}

// Filter narrows List. Zero values mean "no filter"; Page is 1-based.
type Filter struct {
	Status       Status
	EmployeeCode string
	Page         int
	Limit        int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps paging to sane bounds.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	return f
}

func (f Filter) Offset() int { return (f.Page - 1) * f.Limit }

// Stats holds request counts per status.
type Stats struct {
	EmployeeCode string `json:"employee_code,omitempty"`
	Total        int64  `json:"total"`
	Pending      int64  `json:"pending"`
	Approved     int64  `json:"approved"`
	OnLoan       int64  `json:"on_loan"`
	Returned     int64  `json:"returned"`
	Overdue      int64  `json:"overdue"`
	Rejected     int64  `json:"rejected"`
}

// StatsFromCounts folds a per-status count map into Stats.
func StatsFromCounts(counts map[Status]int64) Stats {
	var s Stats
	for st, n := range counts {
		switch st {
		case StatusPending:
			s.Pending = n
		case StatusApproved:
			s.Approved = n
		case StatusOnLoan:
			s.OnLoan = n
		case StatusReturned:
			s.Returned = n
		case StatusOverdue:
			s.Overdue = n
		case StatusRejected:
			s.Rejected = n
		}
		s.Total += n
	}
	return s
}
