package loanrequest

import "fmt"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusOnLoan   Status = "on_loan"
	StatusReturned Status = "returned"
	StatusOverdue  Status = "overdue"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusOnLoan, StatusReturned, StatusOverdue}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool { return s == StatusRejected || s == StatusReturned }

// Active statuses hold the book; at most one request per book may be active.
func (s Status) Active() bool {
	return s == StatusApproved || s == StatusOnLoan || s == StatusOverdue
}

// ActiveStatuses is the IN-list used by availability queries.
var ActiveStatuses = []Status{StatusApproved, StatusOnLoan, StatusOverdue}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
	}
	return s, nil
}

// Operation names a lifecycle command.
type Operation string

const (
	OpApprove     Operation = "approve"
	OpReject      Operation = "reject"
	OpMarkLoaned  Operation = "mark_loaned"
	OpReturn      Operation = "return"
	OpMarkOverdue Operation = "mark_overdue"
)

// Availability is the side effect a transition has on the referenced book.
type Availability int

const (
	AvailabilityUnchanged Availability = iota
	AvailabilityTaken
	AvailabilityReleased
)

// Transition is one row of the lifecycle table.
type Transition struct {
	Op     Operation
	From   []Status
	To     Status
	Action Action
	Book   Availability
}

// Allows reports whether the transition may start from s.
func (t Transition) Allows(s Status) bool {
	for _, f := range t.From {
		if f == s {
			return true
		}
	}
	return false
}

var transitions = map[Operation]Transition{
	OpApprove:     {Op: OpApprove, From: []Status{StatusPending}, To: StatusApproved, Action: ActionApproved, Book: AvailabilityTaken},
	OpReject:      {Op: OpReject, From: []Status{StatusPending}, To: StatusRejected, Action: ActionRejected, Book: AvailabilityUnchanged},
	OpMarkLoaned:  {Op: OpMarkLoaned, From: []Status{StatusApproved}, To: StatusOnLoan, Action: ActionLoaned, Book: AvailabilityTaken},
	OpReturn:      {Op: OpReturn, From: []Status{StatusApproved, StatusOnLoan, StatusOverdue}, To: StatusReturned, Action: ActionReturned, Book: AvailabilityReleased},
	OpMarkOverdue: {Op: OpMarkOverdue, From: []Status{StatusApproved, StatusOnLoan}, To: StatusOverdue, Action: ActionOverdueNotice, Book: AvailabilityUnchanged},
}

// Operations lists every operation with a table entry.
var Operations = []Operation{OpApprove, OpReject, OpMarkLoaned, OpReturn, OpMarkOverdue}

// TransitionFor returns the table row for op.
func TransitionFor(op Operation) (Transition, error) {
	t, ok := transitions[op]
	if !ok {
		return Transition{}, fmt.Errorf("%w: unknown operation %q", ErrInvalidInput, op)
	}
	return t, nil
}

// CanTransition reports whether some operation moves a request from -> to.
func CanTransition(from, to Status) bool {
	for _, t := range transitions {
		if t.To == to && t.Allows(from) {
			return true
		}
	}
	return false
}
