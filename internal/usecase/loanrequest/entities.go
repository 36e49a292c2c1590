package loanrequest

import (
	"context"
	"time"

	"digilib-backend/internal/domain/book"
	domain "digilib-backend/internal/domain/loanrequest"
)

// Caller is the authenticated user invoking an operation.
type Caller struct {
	UserID uint64
	Admin  bool
}

type SubmitInput struct {
	BookID              uint64
	EmployeeCode        string
	BorrowerName        string
	BorrowerEmail       string
	BorrowerPhone       string
	RequestedReturnDate *time.Time
	Reason              string
	ActorID             *uint64 // submitting user, if known
}

type DecisionInput struct {
	RequestID  uint64
	ApproverID uint64
	Notes      string
}

type MarkLoanedInput struct {
	RequestID uint64
	ActorID   uint64
	// DueDate is accepted for interface stability and ignored; approval fixes the due date.
	DueDate *time.Time
}

type ReturnInput struct {
	RequestID uint64
	ActorID   uint64
	Notes     string
}

type ListInput struct {
	Status       string
	EmployeeCode string
	Page         int
	Limit        int
}

type ListResult struct {
	Requests []domain.View `json:"requests"`
	Total    int64         `json:"total"`
}

type BookList struct {
	Books []book.Book `json:"books"`
	Total int64       `json:"total"`
}

// StatsCache is a bounded, expiring store for aggregate counts.
// Misses and backend failures both report ok=false.
type StatsCache interface {
	Get(ctx context.Context, key string) (*domain.Stats, bool)
	Set(ctx context.Context, key string, s *domain.Stats)
	Invalidate(ctx context.Context, keys ...string)
}

const adminStatsKey = "stats:loan-requests:admin"

func AdminStatsKey() string { return adminStatsKey }

func BorrowerStatsKey(employeeCode string) string {
	return "stats:loan-requests:borrower:" + employeeCode
}
