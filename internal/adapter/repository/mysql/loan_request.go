package mysql

import (
	"context"
	"errors"
	"time"

	domain "digilib-backend/internal/domain/loanrequest"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRequestRepository struct{ db *gorm.DB }

func NewLoanRequestRepository(db *gorm.DB) *LoanRequestRepository {
	return &LoanRequestRepository{db: db}
}

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *LoanRequestRepository) Tx(ctx context.Context, fn func(repo domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LoanRequestRepository{db: tx})
	})
}

func (r *LoanRequestRepository) Create(ctx context.Context, lr *domain.LoanRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *LoanRequestRepository) AssignCode(ctx context.Context, id uint64, code string) error {
	return r.db.WithContext(ctx).
		Model(&domain.LoanRequest{}).
		Where("id = ?", id).
		Update("request_code", code).Error
}

func (r *LoanRequestRepository) GetByID(ctx context.Context, id uint64) (*domain.LoanRequest, error) {
	var out domain.LoanRequest
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRequestRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.LoanRequest, error) {
	var out domain.LoanRequest
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	return &out, res.Error
}

const viewColumns = "lr.*, b.title AS book_title, b.isbn AS book_isbn, " +
	"e.name AS employee_name, e.department AS employee_department"

func (r *LoanRequestRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("loan_requests AS lr").
		Select(viewColumns).
		Joins("LEFT JOIN books b ON b.id = lr.book_id").
		Joins("LEFT JOIN employees e ON e.employee_code = lr.employee_code")
}

func (r *LoanRequestRepository) GetView(ctx context.Context, id uint64) (*domain.View, error) {
	var out domain.View
	res := r.viewQuery(ctx).Where("lr.id = ?", id).Limit(1).Scan(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return &out, nil
}

func applyFilter(q *gorm.DB, f domain.Filter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("lr.status = ?", f.Status)
	}
	if f.EmployeeCode != "" {
		q = q.Where("lr.employee_code = ?", f.EmployeeCode)
	}
	return q
}

func (r *LoanRequestRepository) List(ctx context.Context, f domain.Filter) ([]domain.View, int64, error) {
	f = f.Normalize()

	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Table("loan_requests AS lr"), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.View
	res := applyFilter(r.viewQuery(ctx), f).
		Order("lr.request_date DESC, lr.id DESC").
		Limit(f.Limit).
		Offset(f.Offset()).
		Scan(&out)
	return out, total, res.Error
}

func (r *LoanRequestRepository) UpdateStatus(ctx context.Context, id uint64, from []domain.Status, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&domain.LoanRequest{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *LoanRequestRepository) CountActiveForBook(ctx context.Context, bookID, excludeID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.LoanRequest{}).
		Where("book_id = ? AND id <> ? AND status IN ?", bookID, excludeID, domain.ActiveStatuses).
		Count(&n).Error
	return n, err
}

func (r *LoanRequestRepository) ListDueIDs(ctx context.Context, asOf time.Time, limit int) ([]uint64, error) {
	if limit <= 0 {
		limit = domain.MaxPageSize
	}
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&domain.LoanRequest{}).
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
			[]domain.Status{domain.StatusApproved, domain.StatusOnLoan}, asOf).
		Order("due_date ASC, id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
