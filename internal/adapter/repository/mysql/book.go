package mysql

import (
	"context"
	"errors"

	bookDomain "digilib-backend/internal/domain/book"
	"digilib-backend/internal/domain/loanrequest"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) *BookRepository { return &BookRepository{db: db} }

func (r *BookRepository) GetByID(ctx context.Context, id uint64) (*bookDomain.Book, error) {
	var out bookDomain.Book
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, bookDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BookRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*bookDomain.Book, error) {
	var out bookDomain.Book
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, bookDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BookRepository) SetAvailability(ctx context.Context, id uint64, available bool) error {
	v := bookDomain.Unavailable
	if available {
		v = bookDomain.Available
	}
	return r.db.WithContext(ctx).
		Model(&bookDomain.Book{}).
		Where("id = ?", id).
		Update("available", v).Error
}

func (r *BookRepository) ListAvailable(ctx context.Context, page, limit int) ([]bookDomain.Book, int64, error) {
	activeLoan := r.db.
		Model(&loanrequest.LoanRequest{}).
		Select("1").
		Where("loan_requests.book_id = books.id AND loan_requests.status IN ?", loanrequest.ActiveStatuses)

	q := r.db.WithContext(ctx).
		Model(&bookDomain.Book{}).
		Where("books.available = ?", bookDomain.Available).
		Where("NOT EXISTS (?)", activeLoan)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []bookDomain.Book
	res := q.Order("books.title ASC, books.id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&out)
	return out, total, res.Error
}
