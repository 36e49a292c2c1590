package mysql

import (
	"context"
	"errors"

	"digilib-backend/internal/domain/borrower"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlErrDupEntry is ER_DUP_ENTRY.
const mysqlErrDupEntry = 1062

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysqldriver.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDupEntry
}

type EmployeeRepository struct{ db *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository { return &EmployeeRepository{db: db} }

func (r *EmployeeRepository) GetByCode(ctx context.Context, code string) (*borrower.Employee, error) {
	var out borrower.Employee
	res := r.db.WithContext(ctx).Where("employee_code = ?", code).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, borrower.ErrNotFound
	}
	return &out, res.Error
}

func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID uint64) (*borrower.Employee, error) {
	var out borrower.Employee
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, borrower.ErrNotFound
	}
	return &out, res.Error
}

func (r *EmployeeRepository) Create(ctx context.Context, e *borrower.Employee) error {
	err := r.db.WithContext(ctx).Create(e).Error
	if isDuplicateKey(err) {
		return borrower.ErrDuplicate
	}
	return err
}

type StaffRepository struct{ db *gorm.DB }

func NewStaffRepository(db *gorm.DB) *StaffRepository { return &StaffRepository{db: db} }

func (r *StaffRepository) GetByCode(ctx context.Context, nip string) (*borrower.Staff, error) {
	var out borrower.Staff
	res := r.db.WithContext(ctx).Where("nip = ?", nip).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, borrower.ErrNotFound
	}
	return &out, res.Error
}
