package loanrequest

import (
	"context"
	"sync"
	"testing"
	"time"

	"digilib-backend/internal/domain/book"
	"digilib-backend/internal/domain/borrower"
	domain "digilib-backend/internal/domain/loanrequest"
	"digilib-backend/internal/domain/uow"
	"digilib-backend/internal/testutil/bookmock"
	"digilib-backend/internal/testutil/borrowermock"
	"digilib-backend/internal/testutil/loanrequestmock"
	"digilib-backend/internal/testutil/uowmock"
)

var fixedNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// memCache is an in-process StatsCache that records invalidations.
type memCache struct {
	mu          sync.Mutex
	items       map[string]domain.Stats
	invalidated []string
}

func newMemCache() *memCache { return &memCache{items: map[string]domain.Stats{}} }

func (c *memCache) Get(_ context.Context, key string) (*domain.Stats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return &s, true
}

func (c *memCache) Set(_ context.Context, key string, s *domain.Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = *s
}

func (c *memCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	c.invalidated = append(c.invalidated, keys...)
}

// harness wires function mocks into a Usecase and records the writes it sees.
type harness struct {
	requests *loanrequestmock.Repo
	history  *loanrequestmock.HistoryRepo
	books    *bookmock.Repo
	emps     *borrowermock.EmployeeRepo
	staff    *borrowermock.StaffRepo
	stats    *loanrequestmock.StatsReader
	cache    *memCache

	appended     []domain.History
	updates      []map[string]any
	availability []bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		requests: &loanrequestmock.Repo{},
		history:  &loanrequestmock.HistoryRepo{},
		books:    &bookmock.Repo{},
		emps:     &borrowermock.EmployeeRepo{},
		staff:    &borrowermock.StaffRepo{},
		stats:    &loanrequestmock.StatsReader{},
		cache:    newMemCache(),
	}
	h.history.AppendFn = func(_ context.Context, e *domain.History) error {
		h.appended = append(h.appended, *e)
		return nil
	}
	h.requests.UpdateStatusFn = func(_ context.Context, _ uint64, _ []domain.Status, fields map[string]any) error {
		h.updates = append(h.updates, fields)
		return nil
	}
	h.books.SetAvailabilityFn = func(_ context.Context, _ uint64, available bool) error {
		h.availability = append(h.availability, available)
		return nil
	}
	h.books.GetByIDForUpdateFn = func(_ context.Context, id uint64) (*book.Book, error) {
		return &book.Book{ID: id, Available: book.Available}, nil
	}
	return h
}

func (h *harness) repos() uow.Repos {
	return uow.Repos{
		LoanRequests: h.requests,
		History:      h.history,
		Books:        h.books,
		Employees:    h.emps,
		Staff:        h.staff,
	}
}

func (h *harness) usecase() *Usecase {
	return NewUsecase(h.repos(), uowmock.Passthrough(h.repos()), h.stats,
		WithStatsCache(h.cache),
		WithClock(func() time.Time { return fixedNow }),
	)
}

// withRequest serves lr from both the locked read and the post-update reload,
// applying recorded updates so the reload reflects them.
func (h *harness) withRequest(lr domain.LoanRequest) {
	h.requests.GetByIDForUpdateFn = func(_ context.Context, id uint64) (*domain.LoanRequest, error) {
		if id != lr.ID {
			return nil, domain.ErrNotFound
		}
		cp := lr
		return &cp, nil
	}
	h.requests.GetByIDFn = func(_ context.Context, id uint64) (*domain.LoanRequest, error) {
		if id != lr.ID {
			return nil, domain.ErrNotFound
		}
		cp := lr
		for _, u := range h.updates {
			if st, ok := u["status"].(domain.Status); ok {
				cp.Status = st
			}
		}
		return &cp, nil
	}
}

func (h *harness) withEmployee(e borrower.Employee) {
	h.emps.GetByCodeFn = func(_ context.Context, code string) (*borrower.Employee, error) {
		if code != e.EmployeeCode {
			return nil, borrower.ErrNotFound
		}
		cp := e
		return &cp, nil
	}
	h.emps.GetByUserIDFn = func(_ context.Context, userID uint64) (*borrower.Employee, error) {
		if e.UserID == nil || *e.UserID != userID {
			return nil, borrower.ErrNotFound
		}
		cp := e
		return &cp, nil
	}
}

func u64(v uint64) *uint64 { return &v }
