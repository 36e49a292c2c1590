package bookmock

import (
	"context"

	domain "digilib-backend/internal/domain/book"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Book, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Book, error)
	SetAvailabilityFn  func(ctx context.Context, id uint64, available bool) error
	ListAvailableFn    func(ctx context.Context, page, limit int) ([]domain.Book, int64, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Book, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Book, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) SetAvailability(ctx context.Context, id uint64, available bool) error {
	if m.SetAvailabilityFn != nil {
		return m.SetAvailabilityFn(ctx, id, available)
	}
	return nil
}

func (m *Repo) ListAvailable(ctx context.Context, page, limit int) ([]domain.Book, int64, error) {
	if m.ListAvailableFn != nil {
		return m.ListAvailableFn(ctx, page, limit)
	}
	return nil, 0, context.Canceled
}
