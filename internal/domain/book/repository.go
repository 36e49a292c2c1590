package book

import "context"

type Repository interface {
	GetByID(ctx context.Context, id uint64) (*Book, error)
	// GetByIDForUpdate locks the book row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Book, error)
	// SetAvailability is idempotent.
	SetAvailability(ctx context.Context, id uint64, available bool) error
	// ListAvailable excludes books holding an active loan request.
	ListAvailable(ctx context.Context, page, limit int) ([]Book, int64, error)
}
