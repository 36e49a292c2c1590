package loanrequestmock

import (
	"context"
	"time"

	domain "digilib-backend/internal/domain/loanrequest"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn             func(ctx context.Context, lr *domain.LoanRequest) error
	AssignCodeFn         func(ctx context.Context, id uint64, code string) error
	GetByIDFn            func(ctx context.Context, id uint64) (*domain.LoanRequest, error)
	GetByIDForUpdateFn   func(ctx context.Context, id uint64) (*domain.LoanRequest, error)
	GetViewFn            func(ctx context.Context, id uint64) (*domain.View, error)
	ListFn               func(ctx context.Context, f domain.Filter) ([]domain.View, int64, error)
	UpdateStatusFn       func(ctx context.Context, id uint64, from []domain.Status, fields map[string]any) error
	CountActiveForBookFn func(ctx context.Context, bookID, excludeID uint64) (int64, error)
	ListDueIDsFn         func(ctx context.Context, asOf time.Time, limit int) ([]uint64, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, lr *domain.LoanRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, lr)
	}
	return nil
}

func (m *Repo) AssignCode(ctx context.Context, id uint64, code string) error {
	if m.AssignCodeFn != nil {
		return m.AssignCodeFn(ctx, id, code)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.LoanRequest, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.LoanRequest, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetView(ctx context.Context, id uint64) (*domain.View, error) {
	if m.GetViewFn != nil {
		return m.GetViewFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.View, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, context.Canceled
}

func (m *Repo) UpdateStatus(ctx context.Context, id uint64, from []domain.Status, fields map[string]any) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, from, fields)
	}
	return nil
}

func (m *Repo) CountActiveForBook(ctx context.Context, bookID, excludeID uint64) (int64, error) {
	if m.CountActiveForBookFn != nil {
		return m.CountActiveForBookFn(ctx, bookID, excludeID)
	}
	return 0, nil
}

func (m *Repo) ListDueIDs(ctx context.Context, asOf time.Time, limit int) ([]uint64, error) {
	if m.ListDueIDsFn != nil {
		return m.ListDueIDsFn(ctx, asOf, limit)
	}
	return nil, context.Canceled
}

// HistoryRepo is a function-backed mock of domain.HistoryRepository.
type HistoryRepo struct {
	AppendFn        func(ctx context.Context, h *domain.History) error
	ListByRequestFn func(ctx context.Context, requestID uint64) ([]domain.History, error)
}

var _ domain.HistoryRepository = (*HistoryRepo)(nil)

func (m *HistoryRepo) Append(ctx context.Context, h *domain.History) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, h)
	}
	return nil
}

func (m *HistoryRepo) ListByRequest(ctx context.Context, requestID uint64) ([]domain.History, error) {
	if m.ListByRequestFn != nil {
		return m.ListByRequestFn(ctx, requestID)
	}
	return nil, context.Canceled
}

// StatsReader is a function-backed mock of domain.StatsReader.
type StatsReader struct {
	CountByStatusFn func(ctx context.Context, employeeCode string) (map[domain.Status]int64, error)
}

var _ domain.StatsReader = (*StatsReader)(nil)

func (m *StatsReader) CountByStatus(ctx context.Context, employeeCode string) (map[domain.Status]int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, employeeCode)
	}
	return nil, context.Canceled
}
