package loanrequest

import "time"

type Action string

const (
	ActionSubmitted     Action = "submitted"
	ActionApproved      Action = "approved"
	ActionRejected      Action = "rejected"
	ActionLoaned        Action = "loaned"
	ActionReturned      Action = "returned"
	ActionOverdueNotice Action = "overdue_notice"
)

// Table: loan_histories (append-only)
type History struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"id"`
	LoanRequestID uint64    `gorm:"column:loan_request_id;not null;index" json:"loan_request_id"`
	Action        Action    `gorm:"column:action;type:enum('submitted','approved','rejected','loaned','returned','overdue_notice');not null" json:"action"`
	ActorID       *uint64   `gorm:"column:actor_id" json:"actor_id,omitempty"`
	Notes         string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	OldStatus     *Status   `gorm:"column:old_status;size:16" json:"old_status"`
	NewStatus     Status    `gorm:"column:new_status;size:16;not null" json:"new_status"`
	CreatedAt     time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (History) TableName() string { return "loan_histories" }
