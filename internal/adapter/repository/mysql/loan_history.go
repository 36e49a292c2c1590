package mysql

import (
	"context"

	domain "digilib-backend/internal/domain/loanrequest"

	"gorm.io/gorm"
)

// HistoryRepository only ever inserts; rows are never updated or deleted.
type HistoryRepository struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) *HistoryRepository { return &HistoryRepository{db: db} }

func (r *HistoryRepository) Append(ctx context.Context, h *domain.History) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *HistoryRepository) ListByRequest(ctx context.Context, requestID uint64) ([]domain.History, error) {
	var out []domain.History
	res := r.db.WithContext(ctx).
		Where("loan_request_id = ?", requestID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
