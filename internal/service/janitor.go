package service

import (
	"context"
	"log"
	"time"
)

// Demoter is the slice of the job store the janitor needs
// (implementation: postgresql.JobRepository.DemoteExhausted).
type Demoter interface {
	DemoteExhausted(ctx context.Context, now time.Time, leaseTimeout time.Duration, maxAttempts int) (int64, error)
}

// Janitor periodically demotes jobs that burned through maxAttempts to
// terminal failed. This covers both exhausted retry rows and the
// rescued-then-abandoned case: a job claimed at attempts=max-1 whose worker
// died sits in processing at the ceiling, invisible to the claim predicate,
// and only the janitor can finish it off. Until it does, the parent skill
// never counts as converged.
type Janitor struct {
	store        Demoter
	leaseTimeout time.Duration
	maxAttempts  int
	interval     time.Duration
}

func NewJanitor(store Demoter, leaseTimeout time.Duration, maxAttempts int, interval time.Duration) *Janitor {
	if leaseTimeout <= 0 {
		leaseTimeout = 15 * time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{
		store:        store,
		leaseTimeout: leaseTimeout,
		maxAttempts:  maxAttempts,
		interval:     interval,
	}
}

// Sweep runs one demotion pass and returns how many rows were failed.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	return j.store.DemoteExhausted(ctx, time.Now().UTC(), j.leaseTimeout, j.maxAttempts)
}

// Run sweeps on a ticker until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := j.Sweep(ctx)
			if err != nil {
				log.Printf("[janitor] sweep error=%v", err)
				continue
			}
			if n > 0 {
				log.Printf("[janitor] demoted=%d exhausted jobs to failed", n)
			}
		}
	}
}
