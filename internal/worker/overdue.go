package worker

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
)

// Sweeper flips loans past their due date to overdue.
type Sweeper interface {
	SweepOverdue(ctx context.Context, batch int) (int, error)
}

type OverdueNotifier struct {
	sweeper  Sweeper
	interval time.Duration
	batch    int
}

func NewOverdueNotifier(s Sweeper, interval time.Duration, batch int) *OverdueNotifier {
	if batch < 1 {
		batch = 200
	}
	return &OverdueNotifier{sweeper: s, interval: interval, batch: batch}
}

// Run checks once right away and then on every tick until ctx is done.
// A zero interval disables the worker.
func (n *OverdueNotifier) Run(ctx context.Context) {
	if n.interval <= 0 {
		log.Println("worker: overdue sweep disabled")
		return
	}
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.logCheck(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("worker: overdue sweep stopped")
			return
		case <-ticker.C:
			n.logCheck(ctx)
		}
	}
}

// Check drains every due request, one batch at a time.
func (n *OverdueNotifier) Check(ctx context.Context) (int, error) {
	total := 0
	for {
		flipped, err := n.sweeper.SweepOverdue(ctx, n.batch)
		total += flipped
		if err != nil {
			return total, errors.Wrap(err, "overdue sweep")
		}
		// a short batch means nothing is left
		if flipped < n.batch || ctx.Err() != nil {
			return total, nil
		}
	}
}

func (n *OverdueNotifier) logCheck(ctx context.Context) {
	flipped, err := n.Check(ctx)
	if err != nil {
		log.Printf("worker error: %v", err)
	}
	if flipped > 0 {
		log.Printf("worker: %d loan request(s) marked overdue", flipped)
	}
}
