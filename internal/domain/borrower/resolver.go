package borrower

import (
	"context"
	"log"

	"github.com/pkg/errors"
)

// Resolver turns an external employee code into a directory entry.
// Implementations return ErrNotFound when they do not know the code.
type Resolver interface {
	Resolve(ctx context.Context, code string) (*Employee, error)
}

// DirectoryResolver looks the code up in the primary directory.
type DirectoryResolver struct {
	Employees EmployeeRepository
}

func (d DirectoryResolver) Resolve(ctx context.Context, code string) (*Employee, error) {
	return d.Employees.GetByCode(ctx, code)
}

// StaffResolver falls back to the staff registry and writes the synthesized
// entry through to the primary directory.
type StaffResolver struct {
	Staff     StaffRepository
	Employees EmployeeRepository
}

func (s StaffResolver) Resolve(ctx context.Context, code string) (*Employee, error) {
	st, err := s.Staff.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.materialize(ctx, st)
}

func (s StaffResolver) materialize(ctx context.Context, st *Staff) (*Employee, error) {
	e := st.ToEmployee()
	err := s.Employees.Create(ctx, e)
	switch {
	case err == nil:
		log.Printf("borrower: materialized directory entry %s from staff registry", e.EmployeeCode)
		return e, nil
	case errors.Is(err, ErrDuplicate):
		// a concurrent first reference won the insert
		return s.Employees.GetByCode(ctx, e.EmployeeCode)
	default:
		return nil, errors.Wrapf(err, "materialize staff %s", st.NIP)
	}
}

// Chain tries each resolver in order.
type Chain []Resolver

func NewResolver(employees EmployeeRepository, staff StaffRepository) Chain {
	return Chain{
		DirectoryResolver{Employees: employees},
		StaffResolver{Staff: staff, Employees: employees},
	}
}

func (c Chain) Resolve(ctx context.Context, code string) (*Employee, error) {
	for _, r := range c {
		e, err := r.Resolve(ctx, code)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, errors.Wrapf(ErrUnknownBorrower, "employee code %s", code)
}
