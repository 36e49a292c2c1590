package loanrequest

import (
	"context"
	"time"
)

type Repository interface {
	// Create inserts a pending request; ID is set on return.
	Create(ctx context.Context, lr *LoanRequest) error
	// AssignCode sets the public request code once the row id is known.
	AssignCode(ctx context.Context, id uint64, code string) error

	GetByID(ctx context.Context, id uint64) (*LoanRequest, error)
	// GetByIDForUpdate locks the row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*LoanRequest, error)
	GetView(ctx context.Context, id uint64) (*View, error)
	List(ctx context.Context, f Filter) ([]View, int64, error)

	// UpdateStatus applies fields only while the row is still in one of from.
	// Returns ErrInvalidTransition when no row matched.
	UpdateStatus(ctx context.Context, id uint64, from []Status, fields map[string]any) error

	// CountActiveForBook counts active requests on bookID other than excludeID.
	CountActiveForBook(ctx context.Context, bookID, excludeID uint64) (int64, error)
	// ListDueIDs returns approved/on_loan requests whose due date is before asOf.
	ListDueIDs(ctx context.Context, asOf time.Time, limit int) ([]uint64, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, h *History) error
	// ListByRequest returns entries oldest first.
	ListByRequest(ctx context.Context, requestID uint64) ([]History, error)
}

// StatsReader aggregates request counts. An empty employeeCode means all borrowers.
type StatsReader interface {
	CountByStatus(ctx context.Context, employeeCode string) (map[Status]int64, error)
}
