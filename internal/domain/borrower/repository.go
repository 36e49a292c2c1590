package borrower

import "context"

type EmployeeRepository interface {
	GetByCode(ctx context.Context, code string) (*Employee, error)
	GetByUserID(ctx context.Context, userID uint64) (*Employee, error)
	// Create returns ErrDuplicate when the employee code already exists.
	Create(ctx context.Context, e *Employee) error
}

type StaffRepository interface {
	GetByCode(ctx context.Context, nip string) (*Staff, error)
}
