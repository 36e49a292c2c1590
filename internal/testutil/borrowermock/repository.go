package borrowermock

import (
	"context"

	domain "digilib-backend/internal/domain/borrower"
)

// EmployeeRepo is a function-backed mock of domain.EmployeeRepository.
// Unset lookups return domain.ErrNotFound so resolver chains fall through.
type EmployeeRepo struct {
	GetByCodeFn   func(ctx context.Context, code string) (*domain.Employee, error)
	GetByUserIDFn func(ctx context.Context, userID uint64) (*domain.Employee, error)
	CreateFn      func(ctx context.Context, e *domain.Employee) error
}

var _ domain.EmployeeRepository = (*EmployeeRepo)(nil)

func (m *EmployeeRepo) GetByCode(ctx context.Context, code string) (*domain.Employee, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, domain.ErrNotFound
}

func (m *EmployeeRepo) GetByUserID(ctx context.Context, userID uint64) (*domain.Employee, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

// StaffRepo is a function-backed mock of domain.StaffRepository.
type StaffRepo struct {
	GetByCodeFn func(ctx context.Context, nip string) (*domain.Staff, error)
}

var _ domain.StaffRepository = (*StaffRepo)(nil)

func (m *StaffRepo) GetByCode(ctx context.Context, nip string) (*domain.Staff, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, nip)
	}
	return nil, domain.ErrNotFound
}
