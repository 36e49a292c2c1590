package loanrequest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"digilib-backend/internal/domain/borrower"
	domain "digilib-backend/internal/domain/loanrequest"
	"digilib-backend/internal/domain/uow"
	"digilib-backend/pkg/id"
)

type Usecase struct {
	repos uow.Repos // bound to the root connection, used by read paths
	uow   uow.UnitOfWork
	stats domain.StatsReader
	cache StatsCache
	now   func() time.Time
}

type Option func(*Usecase)

func WithStatsCache(c StatsCache) Option { return func(u *Usecase) { u.cache = c } }

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

// NewUsecase: repos serve reads, the UoW wraps every state change in one tx.
func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, stats domain.StatsReader, opts ...Option) *Usecase {
	u := &Usecase{repos: repos, uow: tx, stats: stats, now: time.Now}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) clock() time.Time { return u.now().UTC() }

// Submit creates a pending request, resolving (and if needed materializing)
// the borrower's directory entry.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*domain.LoanRequest, error) {
	code := strings.TrimSpace(in.EmployeeCode)
	if in.BookID == 0 || code == "" {
		return nil, fmt.Errorf("%w: book_id and employee_code are required", domain.ErrInvalidInput)
	}

	var out *domain.LoanRequest
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Books.GetByID(ctx, in.BookID); err != nil {
			return err
		}

		emp, err := borrower.NewResolver(r.Employees, r.Staff).Resolve(ctx, code)
		if err != nil {
			return err
		}

		now := u.clock()
		lr := &domain.LoanRequest{
			RequestCode:         id.PlaceholderCode(),
			BookID:              in.BookID,
			EmployeeCode:        emp.EmployeeCode,
			BorrowerName:        firstNonEmpty(in.BorrowerName, emp.Name),
			BorrowerEmail:       firstNonEmpty(in.BorrowerEmail, emp.Email),
			BorrowerPhone:       firstNonEmpty(in.BorrowerPhone, emp.Phone),
			RequestDate:         now,
			RequestedReturnDate: in.RequestedReturnDate,
			Status:              domain.StatusPending,
			Reason:              in.Reason,
		}
		if err := r.LoanRequests.Create(ctx, lr); err != nil {
			return err
		}

		// The row id is the sequence, so codes never collide.
		lr.RequestCode = id.RequestCode(lr.ID)
		if err := r.LoanRequests.AssignCode(ctx, lr.ID, lr.RequestCode); err != nil {
			return err
		}

		if err := r.History.Append(ctx, &domain.History{
			LoanRequestID: lr.ID,
			Action:        domain.ActionSubmitted,
			ActorID:       in.ActorID,
			Notes:         in.Reason,
			NewStatus:     domain.StatusPending,
			CreatedAt:     now,
		}); err != nil {
			return err
		}
		out = lr
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("loan request %s submitted: book=%d borrower=%s", out.RequestCode, out.BookID, out.EmployeeCode)
	u.invalidateStats(ctx, out.EmployeeCode)
	return out, nil
}

func (u *Usecase) Approve(ctx context.Context, in DecisionInput) (*domain.LoanRequest, error) {
	approver := in.ApproverID
	return u.transition(ctx, in.RequestID, domain.OpApprove, &approver,
		func(r uow.Repos, lr *domain.LoanRequest, now time.Time) (map[string]any, string, error) {
			// Lock the book so two approvals for it serialize.
			if _, err := r.Books.GetByIDForUpdate(ctx, lr.BookID); err != nil {
				return nil, "", err
			}
			active, err := r.LoanRequests.CountActiveForBook(ctx, lr.BookID, lr.ID)
			if err != nil {
				return nil, "", err
			}
			if active > 0 {
				return nil, "", domain.ErrBookUnavailable
			}

			due := domain.DueDateFor(now)
			fields := map[string]any{
				"approved_by":    approver,
				"approval_date":  now,
				"due_date":       due,
				"approval_notes": in.Notes,
			}
			return fields, joinNote(in.Notes, "due date: "+due.Format(time.DateOnly)), nil
		})
}

func (u *Usecase) Reject(ctx context.Context, in DecisionInput) (*domain.LoanRequest, error) {
	approver := in.ApproverID
	return u.transition(ctx, in.RequestID, domain.OpReject, &approver,
		func(_ uow.Repos, _ *domain.LoanRequest, now time.Time) (map[string]any, string, error) {
			return map[string]any{
				"approved_by":    approver,
				"approval_date":  now,
				"approval_notes": in.Notes,
			}, in.Notes, nil
		})
}

func (u *Usecase) MarkLoaned(ctx context.Context, in MarkLoanedInput) (*domain.LoanRequest, error) {
	actor := in.ActorID
	return u.transition(ctx, in.RequestID, domain.OpMarkLoaned, &actor,
		func(_ uow.Repos, lr *domain.LoanRequest, now time.Time) (map[string]any, string, error) {
			if in.DueDate != nil && lr.DueDate != nil && !sameDay(*in.DueDate, *lr.DueDate) {
				log.Printf("loan request %s: ignoring due date %s, keeping %s fixed at approval",
					lr.RequestCode, in.DueDate.Format(time.DateOnly), lr.DueDate.Format(time.DateOnly))
			}
			return map[string]any{"loan_date": now}, "", nil
		})
}

func (u *Usecase) Return(ctx context.Context, in ReturnInput) (*domain.LoanRequest, error) {
	actor := in.ActorID
	return u.transition(ctx, in.RequestID, domain.OpReturn, &actor,
		func(_ uow.Repos, _ *domain.LoanRequest, now time.Time) (map[string]any, string, error) {
			return map[string]any{
				"return_date":  now,
				"return_notes": in.Notes,
				"approved_by":  actor,
			}, in.Notes, nil
		})
}

// SweepOverdue flips approved/on_loan requests past their due date to overdue.
// It returns how many requests were flipped.
func (u *Usecase) SweepOverdue(ctx context.Context, batch int) (int, error) {
	ids, err := u.repos.LoanRequests.ListDueIDs(ctx, u.clock(), batch)
	if err != nil {
		return 0, err
	}

	flipped := 0
	for _, requestID := range ids {
		_, err := u.transition(ctx, requestID, domain.OpMarkOverdue, nil,
			func(_ uow.Repos, lr *domain.LoanRequest, now time.Time) (map[string]any, string, error) {
				// re-checked under the row lock; it may have been returned meanwhile
				if lr.DueDate == nil || !lr.DueDate.Before(now) {
					return nil, "", domain.ErrInvalidTransition
				}
				return nil, "due date " + lr.DueDate.Format(time.DateOnly) + " passed", nil
			})
		switch {
		case err == nil:
			flipped++
		case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrNotFound):
			continue
		default:
			return flipped, err
		}
	}
	return flipped, nil
}

// mutation computes the column updates and audit note for one transition.
// It runs inside the transaction with the request row locked.
type mutation func(r uow.Repos, lr *domain.LoanRequest, now time.Time) (map[string]any, string, error)

func (u *Usecase) transition(ctx context.Context, requestID uint64, op domain.Operation, actor *uint64, mutate mutation) (*domain.LoanRequest, error) {
	if requestID == 0 {
		return nil, fmt.Errorf("%w: request id is required", domain.ErrInvalidInput)
	}
	tr, err := domain.TransitionFor(op)
	if err != nil {
		return nil, err
	}

	var out *domain.LoanRequest
	err = u.uow.WithinRequestTx(ctx, requestID, func(r uow.Repos, lr *domain.LoanRequest) error {
		// State guard
		if !tr.Allows(lr.Status) {
			return domain.ErrInvalidTransition
		}

		now := u.clock()
		fields, note, err := mutate(r, lr, now)
		if err != nil {
			return err
		}
		if fields == nil {
			fields = map[string]any{}
		}
		fields["status"] = tr.To

		if err := r.LoanRequests.UpdateStatus(ctx, lr.ID, tr.From, fields); err != nil {
			return err
		}
		if err := applyAvailability(ctx, r, tr, lr.BookID); err != nil {
			return err
		}

		old := lr.Status
		if err := r.History.Append(ctx, &domain.History{
			LoanRequestID: lr.ID,
			Action:        tr.Action,
			ActorID:       actor,
			Notes:         note,
			OldStatus:     &old,
			NewStatus:     tr.To,
			CreatedAt:     now,
		}); err != nil {
			return err
		}

		updated, err := r.LoanRequests.GetByID(ctx, lr.ID)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("loan request %s: %s -> %s", out.RequestCode, op, out.Status)
	u.invalidateStats(ctx, out.EmployeeCode)
	return out, nil
}

func applyAvailability(ctx context.Context, r uow.Repos, tr domain.Transition, bookID uint64) error {
	switch tr.Book {
	case domain.AvailabilityTaken:
		return r.Books.SetAvailability(ctx, bookID, false)
	case domain.AvailabilityReleased:
		return r.Books.SetAvailability(ctx, bookID, true)
	default:
		return nil
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func joinNote(notes, suffix string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return suffix
	}
	return notes + " (" + suffix + ")"
}

func sameDay(a, b time.Time) bool {
	return a.UTC().Format(time.DateOnly) == b.UTC().Format(time.DateOnly)
}
