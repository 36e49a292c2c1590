package uowmock

import (
	"context"
	"errors"
	"testing"

	"digilib-backend/internal/domain/loanrequest"
	"digilib-backend/internal/domain/uow"
	"digilib-backend/internal/testutil/bookmock"
	"digilib-backend/internal/testutil/loanrequestmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	requests := &loanrequestmock.Repo{}
	books := &bookmock.Repo{}
	repos := uow.Repos{LoanRequests: requests, Books: books}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			if fn == nil {
				t.Fatalf("WithinTx: fn is nil")
			}
			// simulate transaction body
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.LoanRequests != requests || r.Books != books {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	ctx := context.Background()
	sentinel := errors.New("boom")

	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error {
			return sentinel
		},
	}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinRequestTx(ctx, 1, func(uow.Repos, *loanrequest.LoanRequest) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinRequestTx default: want errUnimplemented, got %v", err)
	}
}

func TestPassthrough_LocksRequestFirst(t *testing.T) {
	ctx := context.Background()
	locked := &loanrequest.LoanRequest{ID: 7, Status: loanrequest.StatusPending}

	requests := &loanrequestmock.Repo{
		GetByIDForUpdateFn: func(_ context.Context, id uint64) (*loanrequest.LoanRequest, error) {
			if id != 7 {
				t.Fatalf("lock id = %d, want 7", id)
			}
			return locked, nil
		},
	}
	m := Passthrough(uow.Repos{LoanRequests: requests})

	var got *loanrequest.LoanRequest
	err := m.WithinRequestTx(ctx, 7, func(r uow.Repos, lr *loanrequest.LoanRequest) error {
		got = lr
		return nil
	})
	if err != nil {
		t.Fatalf("WithinRequestTx: unexpected err: %v", err)
	}
	if got != locked {
		t.Fatalf("WithinRequestTx: locked row not forwarded: %+v", got)
	}
}

func TestPassthrough_LockErrorSkipsBody(t *testing.T) {
	ctx := context.Background()
	requests := &loanrequestmock.Repo{
		GetByIDForUpdateFn: func(context.Context, uint64) (*loanrequest.LoanRequest, error) {
			return nil, loanrequest.ErrNotFound
		},
	}
	m := Passthrough(uow.Repos{LoanRequests: requests})

	err := m.WithinRequestTx(ctx, 99, func(uow.Repos, *loanrequest.LoanRequest) error {
		t.Fatalf("body must not run when the lock fails")
		return nil
	})
	if !errors.Is(err, loanrequest.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinRequestTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}

	// set via fluent setters
	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinRequestTx(func(context.Context, uint64, func(uow.Repos, *loanrequest.LoanRequest) error) error { return nil })

	if m.WithinTxFn == nil || m.WithinRequestTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}

	// reset clears funcs
	m.Reset()
	if m.WithinTxFn != nil || m.WithinRequestTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
