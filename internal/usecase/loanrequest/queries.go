package loanrequest

import (
	"context"
	"errors"
	"log"
	"strings"

	"digilib-backend/internal/domain/book"
	"digilib-backend/internal/domain/borrower"
	domain "digilib-backend/internal/domain/loanrequest"
)

// Get returns one request. Non-admin callers only see their own requests;
// anything else reads as not found.
func (u *Usecase) Get(ctx context.Context, requestID uint64, caller Caller) (*domain.View, error) {
	v, err := u.repos.LoanRequests.GetView(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if caller.Admin {
		return v, nil
	}
	code, err := u.callerCode(ctx, caller)
	if err != nil {
		return nil, err
	}
	if code == "" || v.EmployeeCode != code {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (u *Usecase) List(ctx context.Context, in ListInput, caller Caller) (*ListResult, error) {
	f := domain.Filter{
		EmployeeCode: strings.TrimSpace(in.EmployeeCode),
		Page:         in.Page,
		Limit:        in.Limit,
	}.Normalize()
	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	if !caller.Admin {
		code, err := u.callerCode(ctx, caller)
		if err != nil {
			return nil, err
		}
		if code == "" {
			return &ListResult{Requests: []domain.View{}}, nil
		}
		f.EmployeeCode = code
	}

	rows, total, err := u.repos.LoanRequests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.View{}
	}
	return &ListResult{Requests: rows, Total: total}, nil
}

// History returns the audit trail of a request, oldest first.
func (u *Usecase) History(ctx context.Context, requestID uint64, caller Caller) ([]domain.History, error) {
	if _, err := u.Get(ctx, requestID, caller); err != nil {
		return nil, err
	}
	return u.repos.History.ListByRequest(ctx, requestID)
}

// Stats returns global counts for admins and the caller's own counts otherwise.
func (u *Usecase) Stats(ctx context.Context, caller Caller) (*domain.Stats, error) {
	key, code := AdminStatsKey(), ""
	if !caller.Admin {
		c, err := u.callerCode(ctx, caller)
		if err != nil {
			return nil, err
		}
		if c == "" {
			return &domain.Stats{}, nil
		}
		key, code = BorrowerStatsKey(c), c
	}

	if u.cache != nil {
		if s, ok := u.cache.Get(ctx, key); ok {
			return s, nil
		}
	}

	counts, err := u.stats.CountByStatus(ctx, code)
	if err != nil {
		return nil, err
	}
	s := domain.StatsFromCounts(counts)
	s.EmployeeCode = code

	if u.cache != nil {
		u.cache.Set(ctx, key, &s)
	}
	return &s, nil
}

// AvailableBooks lists books that can be requested right now.
func (u *Usecase) AvailableBooks(ctx context.Context, page, limit int) (*BookList, error) {
	f := domain.Filter{Page: page, Limit: limit}.Normalize()
	books, total, err := u.repos.Books.ListAvailable(ctx, f.Page, f.Limit)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []book.Book{}
	}
	return &BookList{Books: books, Total: total}, nil
}

// callerCode resolves the employee code linked to the caller's account.
// An unlinked account yields "".
func (u *Usecase) callerCode(ctx context.Context, caller Caller) (string, error) {
	e, err := u.repos.Employees.GetByUserID(ctx, caller.UserID)
	if errors.Is(err, borrower.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return e.EmployeeCode, nil
}

func (u *Usecase) invalidateStats(ctx context.Context, employeeCode string) {
	if u.cache == nil {
		return
	}
	keys := []string{AdminStatsKey()}
	if employeeCode != "" {
		keys = append(keys, BorrowerStatsKey(employeeCode))
	}
	u.cache.Invalidate(ctx, keys...)
	log.Printf("stats cache invalidated: %v", keys)
}
