package uow

import (
	"context"

	"digilib-backend/internal/domain/book"
	"digilib-backend/internal/domain/borrower"
	"digilib-backend/internal/domain/loanrequest"
)

// Repos is the set of repositories bound to one transaction.
type Repos struct {
	LoanRequests loanrequest.Repository
	History      loanrequest.HistoryRepository
	Books        book.Repository
	Employees    borrower.EmployeeRepository
	Staff        borrower.StaffRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan request row first, then pass it in
	WithinRequestTx(ctx context.Context, requestID uint64, fn func(r Repos, lr *loanrequest.LoanRequest) error) error
}
