package mysql

import (
	"context"

	"digilib-backend/internal/domain/loanrequest"
	"digilib-backend/internal/domain/uow"

	"gorm.io/gorm"
)

// NewRepos binds every repository to db (a root connection or a tx).
func NewRepos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		LoanRequests: &LoanRequestRepository{db: db},
		History:      &HistoryRepository{db: db},
		Books:        &BookRepository{db: db},
		Employees:    &EmployeeRepository{db: db},
		Staff:        &StaffRepository{db: db},
	}
}

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

func (u *GormUoW) WithinRequestTx(ctx context.Context, requestID uint64, fn func(r uow.Repos, lr *loanrequest.LoanRequest) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// lock the request row up-front to prevent races
		lr, err := r.LoanRequests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		return fn(r, lr)
	})
}
